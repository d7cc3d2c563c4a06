package downloading

import (
	"errors"
	"fmt"

	"github.com/contre95/shadowbox/src/music"
)

var (
	// ErrAcquisitionFailed wraps every input the download engine gave up on.
	ErrAcquisitionFailed = errors.New("acquisition failed")
	// ErrNothingPlaced is returned when files were downloaded but none
	// reached the library.
	ErrNothingPlaced = errors.New("no track was placed in the library")
	// ErrNotAudio rejects imports of unsupported files.
	ErrNotAudio = errors.New("not a supported audio file")
)

// TrackResult is the fate of a single audio file.
type TrackResult struct {
	Source    string
	Identity  music.TrackIdentity
	Placement music.PlacementResult
	Err       error
}

// OK reports whether the track reached the library.
func (t TrackResult) OK() bool {
	return t.Err == nil
}

// ItemResult is the result of one input: a query, URL or imported file.
// Playlists produce several tracks and succeed when at least one was placed.
type ItemResult struct {
	Input       string
	Strategy    string
	Status      music.DownloadStatus
	Tracks      []TrackResult
	Diagnostics []string
	Hints       []string
	Err         error
}

// OK reports whether the item succeeded.
func (r ItemResult) OK() bool {
	return r.Err == nil
}

// Placed returns the tracks that reached the library.
func (r ItemResult) Placed() []TrackResult {
	var placed []TrackResult
	for _, t := range r.Tracks {
		if t.OK() {
			placed = append(placed, t)
		}
	}
	return placed
}

// settle sets Err from the track results.
func (r *ItemResult) settle() {
	if r.Err != nil {
		return
	}
	if len(r.Placed()) > 0 {
		return
	}
	for _, t := range r.Tracks {
		if t.Err != nil {
			r.Err = fmt.Errorf("%w: %w", ErrNothingPlaced, t.Err)
			return
		}
	}
	r.Err = ErrNothingPlaced
}

// BatchReport summarizes a sequential batch.
type BatchReport struct {
	Items []ItemResult
}

// Total is the number of inputs.
func (b BatchReport) Total() int {
	return len(b.Items)
}

// Succeeded is the number of inputs that placed at least one track.
func (b BatchReport) Succeeded() int {
	n := 0
	for _, item := range b.Items {
		if item.OK() {
			n++
		}
	}
	return n
}

// Failed returns the inputs that did not succeed.
func (b BatchReport) Failed() []ItemResult {
	var failed []ItemResult
	for _, item := range b.Items {
		if !item.OK() {
			failed = append(failed, item)
		}
	}
	return failed
}

// Summary renders the one-line outcome of the batch.
func (b BatchReport) Summary() string {
	return fmt.Sprintf("Downloaded %d out of %d songs", b.Succeeded(), b.Total())
}
