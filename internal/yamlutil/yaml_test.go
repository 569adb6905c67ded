package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-chromepdf/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Workers int    `yaml:"workers"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, cfg *testConfig)
	}{
		{
			name: "valid YAML",
			data: []byte("name: render\nworkers: 4"),
			dest: &testConfig{},
			check: func(t *testing.T, cfg *testConfig) {
				if cfg.Name != "render" || cfg.Workers != 4 {
					t.Errorf("decoded %+v", cfg)
				}
			},
		},
		{
			name:    "empty data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest.(*testConfig))
			}
		})
	}
}

func TestUnmarshalStrict_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var cfg testConfig
	err := yamlutil.UnmarshalStrict([]byte("name: x\nbogus: 1"), &cfg)
	if err == nil {
		t.Fatal("UnmarshalStrict() accepted an unknown field")
	}
}

func TestUnmarshalStrict_InputTooLarge(t *testing.T) {
	t.Parallel()

	big := []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize))
	var cfg testConfig
	if err := yamlutil.UnmarshalStrict(big, &cfg); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Fatalf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
	}
}
