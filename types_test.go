package chromepdf

import (
	"errors"
	"testing"
)

func TestPageSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{name: "nil uses defaults", page: nil},
		{name: "defaults", page: DefaultPageSettings()},
		{name: "a4 landscape", page: &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 1.0}},
		{name: "mixed case size", page: &PageSettings{Size: "Legal", Orientation: "Portrait", Margin: 0.5}},
		{name: "unknown size", page: &PageSettings{Size: "tabloid", Orientation: OrientationPortrait, Margin: 0.5}, wantErr: ErrInvalidPageSize},
		{name: "unknown orientation", page: &PageSettings{Size: PageSizeA4, Orientation: "sideways", Margin: 0.5}, wantErr: ErrInvalidOrientation},
		{name: "margin too small", page: &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 0.1}, wantErr: ErrInvalidMargin},
		{name: "margin too large", page: &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 3.5}, wantErr: ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.page.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageSettingsPrintParams(t *testing.T) {
	t.Parallel()

	t.Run("nil uses letter portrait defaults", func(t *testing.T) {
		t.Parallel()
		var page *PageSettings
		params := page.printParams()
		if params["paperWidth"] != 8.5 || params["paperHeight"] != 11.0 {
			t.Errorf("paper = %v x %v, want 8.5 x 11", params["paperWidth"], params["paperHeight"])
		}
		if params["marginTop"] != DefaultMargin {
			t.Errorf("marginTop = %v, want %v", params["marginTop"], DefaultMargin)
		}
		if params["printBackground"] != true {
			t.Error("printBackground = false, want true")
		}
	})

	t.Run("landscape swaps dimensions", func(t *testing.T) {
		t.Parallel()
		page := &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 1.0}
		params := page.printParams()
		if params["paperWidth"] != 11.69 || params["paperHeight"] != 8.27 {
			t.Errorf("paper = %v x %v, want 11.69 x 8.27", params["paperWidth"], params["paperHeight"])
		}
	})

	t.Run("margin applies to all sides", func(t *testing.T) {
		t.Parallel()
		page := &PageSettings{Size: PageSizeLegal, Orientation: OrientationPortrait, Margin: 0.75}
		params := page.printParams()
		for _, key := range []string{"marginTop", "marginBottom", "marginLeft", "marginRight"} {
			if params[key] != 0.75 {
				t.Errorf("%s = %v, want 0.75", key, params[key])
			}
		}
	})
}

func TestPDFASettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pdfa        *PDFASettings
		wantErr     error
		wantVersion int
	}{
		{name: "nil is valid", pdfa: nil, wantVersion: 2},
		{name: "zero defaults to 2", pdfa: &PDFASettings{}, wantVersion: 2},
		{name: "version 2", pdfa: &PDFASettings{Version: 2}, wantVersion: 2},
		{name: "version 3", pdfa: &PDFASettings{Version: 3}, wantVersion: 3},
		{name: "version 1 rejected", pdfa: &PDFASettings{Version: 1}, wantErr: ErrInvalidPDFAVersion},
		{name: "version 4 rejected", pdfa: &PDFASettings{Version: 4}, wantErr: ErrInvalidPDFAVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.pdfa.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got := tt.pdfa.version(); got != tt.wantVersion {
				t.Errorf("version() = %d, want %d", got, tt.wantVersion)
			}
		})
	}
}
