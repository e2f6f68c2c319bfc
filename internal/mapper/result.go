package mapper

import (
	"github.com/avullo/ensembl-xref/internal/coordxref"
	"github.com/avullo/ensembl-xref/internal/ensembl"
)

// Unmapped reason texts. The full descriptions are the dedup keys for
// unmapped_reason rows, so they must stay byte-stable.
const (
	ReasonNoOverlap          = "No overlap"
	ReasonNoOverlapFull      = "No coordinate overlap with any Ensembl transcript"
	ReasonBelowThreshold     = "Did not meet threshold"
	ReasonBelowThresholdFull = "Match score for transcript lower than threshold (%.2f)"
	ReasonNotBest            = "Was not best match"
	ReasonNotBestFull        = "Did not top best transcript match score (%.2f)"
)

// MappedTo records one Ensembl feature an external transcript maps to.
type MappedTo struct {
	EnsemblID  int64  // Internal id of the Ensembl feature
	StableID   string // Stable id, for reporting
	ObjectType string // Always "Transcript" for coordinate mapping
}

// MappedXref is an external transcript confirmed as a mapping winner for at
// least one Ensembl transcript.
type MappedXref struct {
	CoordXrefID int64
	Accession   string
	SourceID    int64
	MappedTo    []MappedTo
}

// UnmappedXref is an external transcript that has not (yet) won a mapping.
type UnmappedXref struct {
	CoordXrefID int64
	Accession   string
	SourceID    int64
	Reason      string
	ReasonFull  string
	Score       float64 // Best score observed, valid only if HasScore
	HasScore    bool
	EnsemblID   int64  // Transcript that produced the best score, 0 if none
	StableID    string // Its stable id
}

// Accumulator owns the global mapped and unmapped sets for one species run.
// Every external transcript appears in exactly one of the two sets at any
// point; confirming a winner moves its entry from unmapped to mapped, and
// nothing ever moves back.
type Accumulator struct {
	mapped   map[int64]*MappedXref
	unmapped map[int64]*UnmappedXref
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		mapped:   make(map[int64]*MappedXref),
		unmapped: make(map[int64]*UnmappedXref),
	}
}

// Init seeds the unmapped set with an external transcript, assumed to have
// no overlap until proven otherwise.
func (a *Accumulator) Init(cx *coordxref.CoordXref) {
	a.unmapped[cx.CoordXrefID] = &UnmappedXref{
		CoordXrefID: cx.CoordXrefID,
		Accession:   cx.Accession,
		SourceID:    cx.SourceID,
		Reason:      ReasonNoOverlap,
		ReasonFull:  ReasonNoOverlapFull,
	}
}

// Confirm records a mapping win against the given Ensembl transcript,
// moving the entry out of the unmapped set on its first win.
func (a *Accumulator) Confirm(coordXrefID int64, tx *ensembl.Transcript) {
	m, ok := a.mapped[coordXrefID]
	if !ok {
		u := a.unmapped[coordXrefID]
		m = &MappedXref{
			CoordXrefID: coordXrefID,
			Accession:   u.Accession,
			SourceID:    u.SourceID,
		}
		delete(a.unmapped, coordXrefID)
		a.mapped[coordXrefID] = m
	}
	m.MappedTo = append(m.MappedTo, MappedTo{
		EnsemblID:  tx.DBID,
		StableID:   tx.ID,
		ObjectType: "Transcript",
	})
}

// MarkNotBest refines an unmapped entry: the candidate passed the threshold
// but did not tie the best score. Already-mapped entries are left alone.
func (a *Accumulator) MarkNotBest(coordXrefID int64, score, bestScore float64, tx *ensembl.Transcript) {
	u, ok := a.unmapped[coordXrefID]
	if !ok {
		return
	}
	u.Reason = ReasonNotBest
	u.ReasonFull = sprintfScore(ReasonNotBestFull, bestScore)
	u.recordScore(score, tx)
}

// MarkBelowThreshold refines an unmapped entry: the candidate scored at or
// below the threshold. A previous "Was not best match" reason is more
// specific and is never overwritten here.
func (a *Accumulator) MarkBelowThreshold(coordXrefID int64, score, threshold float64, tx *ensembl.Transcript) {
	u, ok := a.unmapped[coordXrefID]
	if !ok || u.Reason == ReasonNotBest {
		return
	}
	u.Reason = ReasonBelowThreshold
	u.ReasonFull = sprintfScore(ReasonBelowThresholdFull, threshold)
	u.recordScore(score, tx)
}

// recordScore retains the highest score observed for the entry and the
// transcript that produced it.
func (u *UnmappedXref) recordScore(score float64, tx *ensembl.Transcript) {
	if !u.HasScore || score > u.Score {
		u.Score = score
		u.HasScore = true
		u.EnsemblID = tx.DBID
		u.StableID = tx.ID
	}
}

// IsMapped reports whether the external transcript has won a mapping.
func (a *Accumulator) IsMapped(coordXrefID int64) bool {
	_, ok := a.mapped[coordXrefID]
	return ok
}

// Mapped returns the mapped set.
func (a *Accumulator) Mapped() map[int64]*MappedXref {
	return a.mapped
}

// Unmapped returns the unmapped set.
func (a *Accumulator) Unmapped() map[int64]*UnmappedXref {
	return a.unmapped
}
