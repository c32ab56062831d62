package tracker_test

import (
	"math"
	"testing"

	"github.com/goaclib/goac/telemetry"
	"github.com/goaclib/goac/tracker"
	"gonum.org/v1/gonum/mat"
)

func record(e *tracker.Episode, rewards []float64, terminals []bool) {
	n := len(rewards)
	actions := mat.NewVecDense(n, nil)
	e.Record(actions, mat.NewVecDense(n, rewards), terminals)
}

func TestEpisodeBoundaries(t *testing.T) {
	e := tracker.NewEpisode(2, 10, nil)

	record(e, []float64{1, 1}, []bool{false, false})
	record(e, []float64{1, 1}, []bool{true, false})
	record(e, []float64{1, 1}, []bool{false, false})

	if e.EpisodeCount(0) != 1 {
		t.Errorf("episodeCount: want(1) have(%v)", e.EpisodeCount(0))
	}
	if e.EpisodeCount(1) != 0 {
		t.Errorf("episodeCount: want(0) have(%v)", e.EpisodeCount(1))
	}

	// Worker 0's accumulator restarted at the boundary
	if e.EpisodeLength(0) != 1 {
		t.Errorf("episodeLength: want(1) have(%v)", e.EpisodeLength(0))
	}
	if e.EpisodeLength(1) != 3 {
		t.Errorf("episodeLength: want(3) have(%v)", e.EpisodeLength(1))
	}

	if e.Steps() != 3 {
		t.Errorf("steps: want(3) have(%v)", e.Steps())
	}
}

func TestEpisodeSummaryEmission(t *testing.T) {
	rec := telemetry.NewRecorder("")
	e := tracker.NewEpisode(1, 10, rec)

	record(e, []float64{2}, []bool{false})
	record(e, []float64{3}, []bool{true})
	record(e, []float64{7}, []bool{true})

	points := rec.Scalars("data/episode_reward_sum_0")
	if len(points) != 2 {
		t.Fatalf("scalars: want(2) have(%v) emissions", len(points))
	}
	if points[0].Value != 5.0 || points[0].Step != 0 {
		t.Errorf("scalars: first episode \n\twant(5.0 at 0)"+
			"\n\thave(%v at %v)", points[0].Value, points[0].Step)
	}
	if points[1].Value != 7.0 || points[1].Step != 1 {
		t.Errorf("scalars: second episode \n\twant(7.0 at 1)"+
			"\n\thave(%v at %v)", points[1].Value, points[1].Step)
	}

	hists := rec.Histograms("data/episode_reward_dist_0")
	if len(hists) != 2 {
		t.Fatalf("histograms: want(2) have(%v) emissions", len(hists))
	}
	if hists[0].Summary.Count != 2 || hists[0].Summary.Max != 3.0 {
		t.Errorf("histograms: first episode summary mismatch: %+v",
			hists[0].Summary)
	}
}

func TestSmoothedRewardCrossesEpisodes(t *testing.T) {
	e := tracker.NewEpisode(1, 4, nil)

	// The smoothing window is per step, not per episode
	record(e, []float64{1}, []bool{true})
	record(e, []float64{3}, []bool{false})

	if e.SmoothedReward(0) != 2.0 {
		t.Errorf("smoothedReward: want(2.0) have(%v)", e.SmoothedReward(0))
	}
}

func TestWindowFIFO(t *testing.T) {
	w := tracker.NewWindow(3)

	if w.Len() != 0 || w.Capacity() != 3 {
		t.Fatalf("window: illegal initial size \n\twant(0 of 3)"+
			"\n\thave(%v of %v)", w.Len(), w.Capacity())
	}

	for _, v := range []float64{1, 2, 3, 4} {
		w.Push(v)
	}

	if w.Len() != 3 {
		t.Errorf("len: want(3) have(%v)", w.Len())
	}

	values := w.Values()
	want := []float64{2, 3, 4}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("values: index %v \n\twant(%v)\n\thave(%v)", i,
				want[i], values[i])
		}
	}

	if math.Abs(w.Mean()-3.0) > 1e-12 {
		t.Errorf("mean: want(3.0) have(%v)", w.Mean())
	}
}
