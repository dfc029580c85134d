package pipeline

import (
	"context"
	"testing"
)

type mockFilter struct {
	name      string
	shouldErr bool
	allow     bool
	halt      bool
	reason    string
	called    bool
}

func (f *mockFilter) Name() string { return f.name }

func (f *mockFilter) Process(_ context.Context, _ Payload) (*Result, error) {
	f.called = true
	if f.shouldErr {
		return nil, context.DeadlineExceeded
	}
	if !f.allow {
		return &Result{
			IsAllowed:  false,
			Reason:     f.reason,
			FilterName: f.name,
		}, nil
	}
	return &Result{IsAllowed: true, Halt: f.halt, FilterName: f.name}, nil
}

func TestManager_Process(t *testing.T) {
	tests := []struct {
		name        string
		filters     []*mockFilter
		wantAllowed bool
		wantFilter  string
		wantErr     bool
		wantSkipped string
	}{
		{
			name:        "No filters",
			filters:     []*mockFilter{},
			wantAllowed: true,
		},
		{
			name: "All pass",
			filters: []*mockFilter{
				{name: "f1", allow: true},
				{name: "f2", allow: true},
			},
			wantAllowed: true,
		},
		{
			name: "First fails",
			filters: []*mockFilter{
				{name: "f1", allow: false, reason: "fail1"},
				{name: "f2", allow: true},
			},
			wantAllowed: false,
			wantFilter:  "f1",
			wantSkipped: "f2",
		},
		{
			name: "Second fails",
			filters: []*mockFilter{
				{name: "f1", allow: true},
				{name: "f2", allow: false, reason: "fail2"},
			},
			wantAllowed: false,
			wantFilter:  "f2",
		},
		{
			name: "Halt allows and short-circuits",
			filters: []*mockFilter{
				{name: "f1", allow: true, halt: true},
				{name: "f2", allow: false, reason: "never"},
			},
			wantAllowed: true,
			wantFilter:  "f1",
			wantSkipped: "f2",
		},
		{
			name: "Error aborts",
			filters: []*mockFilter{
				{name: "f1", shouldErr: true},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := make([]Filter, len(tt.filters))
			for i, f := range tt.filters {
				fs[i] = f
			}
			m := NewManager(fs...)
			res, err := m.Process(context.Background(), Payload{ChatID: 123, SenderID: 42})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Process() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if res.IsAllowed != tt.wantAllowed {
				t.Errorf("IsAllowed = %v, want %v", res.IsAllowed, tt.wantAllowed)
			}
			if tt.wantFilter != "" && res.FilterName != tt.wantFilter {
				t.Errorf("FilterName = %q, want %q", res.FilterName, tt.wantFilter)
			}
			if tt.wantSkipped != "" {
				for _, f := range tt.filters {
					if f.name == tt.wantSkipped && f.called {
						t.Errorf("filter %q ran after the chain should have stopped", f.name)
					}
				}
			}
		})
	}
}
