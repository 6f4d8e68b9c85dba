// Package platform delivers desktop notifications through the host's
// notification service.
package platform

// AppName is the application identity reported to notification centers.
const AppName = "Whiteboard"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification where the platform supports it.
	IconPath string
	// TimeoutMillis bounds how long the notification stays visible. Zero uses
	// DefaultTimeoutMillis.
	TimeoutMillis int32
}

// DefaultTimeoutMillis is used when Options.TimeoutMillis is zero.
const DefaultTimeoutMillis int32 = 5000

func (o Options) timeout() int32 {
	if o.TimeoutMillis <= 0 {
		return DefaultTimeoutMillis
	}
	return o.TimeoutMillis
}
