package avs2dec

import "testing"

func TestResolveThreadCounts(t *testing.T) {
	tests := []struct {
		name         string
		threads      int
		separatedAEC bool
		wantThreads  int
		wantAEC      int
		wantRec      int
		wantSlots    int
	}{
		{"low_thread_count_all_aec", 2, false, 2, 2, 0, 6},
		{"above_three_splits", 8, false, 8, 5, 3, 15},
		{"clamped_to_half_max_without_separated_aec", 100, false, ThreadMax / 2, ThreadMax/2/2 + 1, ThreadMax/2 - (ThreadMax/2/2 + 1), ThreadMax/2 + (ThreadMax/2/2 + 1) + 2},
		{"clamped_to_full_max_with_separated_aec", 100, true, ThreadMax, ThreadMax/2 + 1, ThreadMax - (ThreadMax/2 + 1), ThreadMax + (ThreadMax/2 + 1) + 2},
		{"below_one_clamped_to_one", 0, false, 1, 1, 0, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Params{Threads: tc.threads, SeparatedAEC: tc.separatedAEC}
			p.resolveThreadCounts()
			if p.Threads != tc.wantThreads {
				t.Errorf("Threads: got %d want %d", p.Threads, tc.wantThreads)
			}
			if p.aecWorkers != tc.wantAEC {
				t.Errorf("aecWorkers: got %d want %d", p.aecWorkers, tc.wantAEC)
			}
			if p.recWorkers != tc.wantRec {
				t.Errorf("recWorkers: got %d want %d", p.recWorkers, tc.wantRec)
			}
			if p.taskSlots != tc.wantSlots {
				t.Errorf("taskSlots: got %d want %d", p.taskSlots, tc.wantSlots)
			}
		})
	}
}
