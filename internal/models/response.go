package models

// BasicResponse is the generic status payload for simple endpoints.
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// FilterSelection is the dashboard's persisted basic filter state. It
// is independent of the query language: these are the UI dropdown
// selections, saved so a reload restores the view.
type FilterSelection struct {
	Module   string `json:"module,omitempty"`
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Search   string `json:"search,omitempty"`
}
