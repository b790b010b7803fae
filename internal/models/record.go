package models

import "time"

// WorkRecord represents one user's image enhancement activity on one calendar day.
// Records are produced once by the data service's cleaner and are immutable
// afterwards; the derived fields are computed at that point and never re-read
// from input.
type WorkRecord struct {
	WorkDate time.Time `json:"workDate"`
	User     string    `json:"user"`

	// Raw counters from the input table.
	TotalDone    int `json:"totalDone"`
	Good         int `json:"good"`
	GoodOriginal int `json:"goodOriginal"`
	GoodEnhanced int `json:"goodEnhanced"`
	ForDownload  int `json:"forDownload"`
	Bad          int `json:"bad"`
	Rejected     int `json:"rejected"`
	Downloaded   int `json:"downloaded"`
	Uploaded     int `json:"uploaded"`

	// Derived counters.
	ForEditing    int `json:"forEditing"`    // GoodEnhanced + ForDownload
	TotalReviewed int `json:"totalReviewed"` // Good + Bad + Rejected
	TotalEdited   int `json:"totalEdited"`   // Downloaded + Uploaded
}

// ComputeDerived fills the derived counters from the raw ones.
func (r *WorkRecord) ComputeDerived() {
	r.ForEditing = r.GoodEnhanced + r.ForDownload
	r.TotalReviewed = r.Good + r.Bad + r.Rejected
	r.TotalEdited = r.Downloaded + r.Uploaded
}

// CounterColumns lists the nine raw counter columns expected in the input
// table, in canonical order. Missing columns are synthesized as all-zero.
var CounterColumns = []string{
	"TotalDone", "Good", "GoodOriginal", "GoodEnhanced",
	"ForDownload", "Bad", "Rejected", "Downloaded", "Uploaded",
}

// ExpectedColumns is CounterColumns plus the identifying columns.
var ExpectedColumns = append([]string{"workdate", "useremail"}, CounterColumns...)
