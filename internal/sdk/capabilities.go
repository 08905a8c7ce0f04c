package sdk

// Capabilities declares what a platform adapter can actually do, so the
// bridge and notification handler stay platform-agnostic.
type Capabilities struct {
	// DisplaySuppression: the adapter can decide whether an incoming push
	// is shown to the user. Where false the OS always displays it.
	DisplaySuppression bool

	// StructuredPush: the push payload is a full key/value map that can be
	// inspected field by field. Where false only a simplified payload with
	// vendor-prefixed keys is available.
	StructuredPush bool

	// CoarseLogSeverity: the native log scale has only four severities
	// (debug/info/warning/error) instead of the shared six-level scale.
	CoarseLogSeverity bool
}

// Android-style and iOS-style capability profiles. Neither platform can
// remove an installed log handler, so that is not a capability.
var (
	AndroidCapabilities = Capabilities{
		DisplaySuppression: true,
		StructuredPush:     true,
		CoarseLogSeverity:  false,
	}
	AppleCapabilities = Capabilities{
		DisplaySuppression: false,
		StructuredPush:     false,
		CoarseLogSeverity:  true,
	}
)
