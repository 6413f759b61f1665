package models

// Viewer identifies the authenticated caller of a request, extracted from
// the gateway headers by middleware and passed explicitly into services.
// A nil *Viewer means the request is unauthenticated; services must
// short-circuit mutations and viewer-state lookups in that case.
type Viewer struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
