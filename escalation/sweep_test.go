package escalation

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtflow/judge"
	"courtflow/notify"
	"courtflow/order"
)

var sweepNow = time.Date(2026, 3, 20, 6, 0, 0, 0, time.UTC)

func pendingOrder(id, judgeID string, daysOld int) order.Order {
	return order.Order{
		ID:           id,
		CourtFileID:  "F-" + id,
		JudgeID:      judgeID,
		JudgeName:    "Judge " + judgeID,
		ReviewStatus: order.ReviewPending,
		CreatedAt:    sweepNow.AddDate(0, 0, -daysOld),
	}
}

func newTestSweep(t *testing.T, store *sweepStore, authorities *fakeAuthorities, notifier *sweepNotifier, opsContact string) *Sweep {
	t.Helper()
	s, err := NewSweep(store, authorities, notifier, 5, 10, opsContact)
	if err != nil {
		t.Fatalf("new sweep: %v", err)
	}
	return s.WithClock(func() time.Time { return sweepNow })
}

func TestNewSweep_RejectsInvertedThresholds(t *testing.T) {
	if _, err := NewSweep(&sweepStore{}, &fakeAuthorities{}, &sweepNotifier{}, 10, 5, ""); err == nil {
		t.Fatal("expected error when reassign threshold does not exceed reminder threshold")
	}
}

func TestSweep_RemindsWithoutMutation(t *testing.T) {
	store := newSweepStore(pendingOrder("o-1", "J-1", 6))
	notifier := &sweepNotifier{}
	sweep := newTestSweep(t, store, &fakeAuthorities{}, notifier, "")

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	if store.updates != 0 {
		t.Fatalf("reminder must not update the order, got %d updates", store.updates)
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(notifier.notices))
	}
	n := notifier.notices[0]
	if n.template != notify.TemplateOrderReminder || n.recipientID != "J-1" {
		t.Fatalf("unexpected reminder %+v", n)
	}
}

func TestSweep_FreshOrdersUntouched(t *testing.T) {
	store := newSweepStore(pendingOrder("o-1", "J-1", 4))
	notifier := &sweepNotifier{}
	sweep := newTestSweep(t, store, &fakeAuthorities{}, notifier, "")

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if len(notifier.notices) != 0 || store.updates != 0 {
		t.Fatal("orders under the reminder threshold must be left alone")
	}
}

func TestSweep_ReassignsAtThreshold(t *testing.T) {
	store := newSweepStore(pendingOrder("o-1", "J-1", 10))
	authorities := &fakeAuthorities{superiors: map[string]judge.Profile{
		"J-1": {ID: "J-9", FullName: "Regional Authority Nine"},
	}}
	notifier := &sweepNotifier{}
	sweep := newTestSweep(t, store, authorities, notifier, "ops@court.example")

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	updated := store.orders["o-1"]
	if updated.JudgeID != "J-9" || updated.JudgeName != "Regional Authority Nine" {
		t.Fatalf("expected reassignment to J-9, got %s/%s", updated.JudgeID, updated.JudgeName)
	}

	// Exactly the reassign threshold takes the reassign branch, never the reminder.
	for _, n := range notifier.notices {
		if n.template == notify.TemplateOrderReminder {
			t.Fatal("reassigned order must not also receive a reminder")
		}
	}
	if got := notifier.byTemplate(notify.TemplateOrderReassigned); len(got) != 1 || got[0].recipientID != "J-9" {
		t.Fatalf("expected reassignment notice for J-9, got %+v", got)
	}
	if got := notifier.byTemplate(notify.TemplateOpsReassigned); len(got) != 1 || got[0].address != "ops@court.example" {
		t.Fatalf("expected ops copy to ops@court.example, got %+v", got)
	}
}

func TestSweep_NoAuthorityLeavesOrderUntouched(t *testing.T) {
	store := newSweepStore(pendingOrder("o-1", "J-top", 12))
	authorities := &fakeAuthorities{}
	notifier := &sweepNotifier{}
	sweep := newTestSweep(t, store, authorities, notifier, "")

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if store.updates != 0 {
		t.Fatal("order without a superior must not be mutated")
	}
	if len(notifier.notices) != 0 {
		t.Fatalf("expected no notices, got %+v", notifier.notices)
	}
}

func TestSweep_OrderFailuresAreIsolated(t *testing.T) {
	store := newSweepStore(
		pendingOrder("o-1", "J-err", 11),
		pendingOrder("o-2", "J-2", 11),
	)
	authorities := &fakeAuthorities{
		superiors: map[string]judge.Profile{"J-2": {ID: "J-9", FullName: "Regional Authority Nine"}},
		errs:      map[string]error{"J-err": errors.New("directory unavailable")},
	}
	notifier := &sweepNotifier{}
	sweep := newTestSweep(t, store, authorities, notifier, "")

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run must not fail on a single order: %v", err)
	}
	if store.orders["o-2"].JudgeID != "J-9" {
		t.Fatal("expected o-2 reassigned despite o-1 failure")
	}
}

type sweepStore struct {
	orders  map[string]order.Order
	updates int
}

func newSweepStore(orders ...order.Order) *sweepStore {
	s := &sweepStore{orders: make(map[string]order.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *sweepStore) List(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *sweepStore) Update(ctx context.Context, o order.Order) (order.Order, error) {
	s.updates++
	s.orders[o.ID] = o
	return o, nil
}

type fakeAuthorities struct {
	superiors map[string]judge.Profile
	errs      map[string]error
}

func (f *fakeAuthorities) Superior(ctx context.Context, judgeID string) (judge.Profile, error) {
	if err := f.errs[judgeID]; err != nil {
		return judge.Profile{}, err
	}
	p, ok := f.superiors[judgeID]
	if !ok {
		return judge.Profile{}, judge.ErrNoAuthority
	}
	return p, nil
}

type notice struct {
	recipientID string
	address     string
	template    string
	data        map[string]any
}

type sweepNotifier struct {
	notices []notice
}

func (n *sweepNotifier) Notify(ctx context.Context, recipientID, template string, data map[string]any) {
	n.notices = append(n.notices, notice{recipientID: recipientID, template: template, data: data})
}

func (n *sweepNotifier) NotifyAddress(recipientID, address, template string, data map[string]any) {
	n.notices = append(n.notices, notice{recipientID: recipientID, address: address, template: template, data: data})
}

func (n *sweepNotifier) byTemplate(template string) []notice {
	var out []notice
	for _, x := range n.notices {
		if x.template == template {
			out = append(out, x)
		}
	}
	return out
}
