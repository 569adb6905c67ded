package chrome

import "github.com/alnah/go-chromepdf/internal/protocol"

// spawnSessionTemplate creates an isolated browser context with one
// attached page target. With the offline option set, network emulation
// blocks the page from fetching remote resources during rendering.
// Calls after the attach are session-scoped: the extracted sessionId
// routes them automatically.
var spawnSessionTemplate = []protocol.Step{
	protocol.Call("Target.createBrowserContext", nil, nil),
	protocol.AwaitResponse(protocol.Extract("result.browserContextId", "browserContextId")),
	protocol.Call("Target.createTarget", []string{"browserContextId"}, map[string]any{"url": "about:blank"}),
	protocol.AwaitResponse(protocol.Extract("result.targetId", "targetId")),
	protocol.Call("Target.attachToTarget", []string{"targetId"}, map[string]any{"flatten": true}),
	protocol.AwaitResponse(protocol.Extract("result.sessionId", "sessionId")),
	protocol.If(offlineEnabled,
		protocol.Call("Network.enable", nil, nil),
		protocol.AwaitResponse(),
		protocol.Call("Network.emulateNetworkConditions", nil, map[string]any{
			"offline":            true,
			"latency":            0,
			"downloadThroughput": -1,
			"uploadThroughput":   -1,
		}),
		protocol.AwaitResponse(),
	),
	protocol.Call("Page.enable", nil, nil),
	protocol.AwaitResponse(),
	protocol.Output("browserContextId", "targetId", "sessionId"),
}

func offlineEnabled(opts protocol.Options) bool {
	return opts["offline"] == true
}

// printTemplate navigates the session's page and prints it. The
// frameStoppedLoading wait is keyed to the navigated frame so load
// events from other frames on the connection cannot resolve it early.
func printTemplate(url string, printParams map[string]any) []protocol.Step {
	return []protocol.Step{
		protocol.Call("Page.navigate", nil, map[string]any{"url": url}),
		protocol.AwaitResponse(protocol.Extract("result.frameId", "frameId")),
		protocol.AwaitNotification("Page.frameStoppedLoading",
			[]protocol.MatchRule{protocol.Match("params.frameId", "frameId")},
		),
		protocol.Call("Page.printToPDF", nil, printParams),
		protocol.AwaitResponse(protocol.Extract("result.data", "data")),
		protocol.Output("data"),
	}
}

// closeSessionTemplate tears a session's target and browser context
// down. Both calls are browser-scoped, so the template runs without a
// session id.
func closeSessionTemplate(targetID, browserContextID string) []protocol.Step {
	return []protocol.Step{
		protocol.Call("Target.closeTarget", nil, map[string]any{"targetId": targetID}),
		protocol.AwaitResponse(),
		protocol.Call("Target.disposeBrowserContext", nil, map[string]any{"browserContextId": browserContextID}),
		protocol.AwaitResponse(),
		protocol.Output(),
	}
}
