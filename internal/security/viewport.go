package security

import "sync"

// ViewportSize is the window geometry reported by the page.
type ViewportSize struct {
	OuterWidth  int `json:"outer_width"`
	InnerWidth  int `json:"inner_width"`
	OuterHeight int `json:"outer_height"`
	InnerHeight int `json:"inner_height"`
}

// ViewportSource supplies the latest window geometry to the devtools
// poller.
type ViewportSource interface {
	Dimensions() ViewportSize
}

// ReportedViewport holds the geometry most recently reported by the
// page over the events endpoint.
type ReportedViewport struct {
	mu   sync.RWMutex
	size ViewportSize
}

func NewReportedViewport() *ReportedViewport {
	return &ReportedViewport{}
}

func (v *ReportedViewport) Report(size ViewportSize) {
	v.mu.Lock()
	v.size = size
	v.mu.Unlock()
}

func (v *ReportedViewport) Dimensions() ViewportSize {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.size
}
