package repokit

import (
	"context"
	"errors"
	"testing"

	"aardsync/internal/platform/store"
	kit "aardsync/internal/platform/testkit"
)

type tag int64

func (t tag) String() string      { return "INSERT" }
func (t tag) RowsAffected() int64 { return int64(t) }

type fakeQ struct {
	execs   []string
	args    [][]any
	failOn  int
	batched bool
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (CommandTag, error) {
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	if f.failOn > 0 && len(f.execs) == f.failOn {
		return nil, errors.New("exec failed")
	}
	return tag(1), nil
}
func (f *fakeQ) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (f *fakeQ) QueryRow(context.Context, string, ...any) Row        { return nil }
func (f *fakeQ) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return fn(f)
}

type batchQ struct{ fakeQ }

func (b *batchQ) ExecBatch(_ context.Context, _ string, argSets [][]any) (int64, error) {
	b.batched = true
	return int64(len(argSets)), nil
}

var _ store.TxRunner = (*fakeQ)(nil)

func TestExecMany_FallsBackToLoop(t *testing.T) {
	q := &fakeQ{}
	n, err := ExecMany(context.Background(), q, "insert", [][]any{{1}, {2}, {3}})
	if err != nil || n != 3 || len(q.execs) != 3 {
		t.Fatalf("n=%d err=%v execs=%d", n, err, len(q.execs))
	}

	q = &fakeQ{failOn: 2}
	n, err = ExecMany(context.Background(), q, "insert", [][]any{{1}, {2}, {3}})
	if err == nil || n != 1 {
		t.Fatalf("want partial count 1 and error, got n=%d err=%v", n, err)
	}
}

func TestExecMany_UsesBatcher(t *testing.T) {
	q := &batchQ{}
	n, err := ExecMany(context.Background(), q, "insert", [][]any{{1}, {2}})
	if err != nil || n != 2 || !q.batched || len(q.execs) != 0 {
		t.Fatalf("n=%d err=%v batched=%v", n, err, q.batched)
	}
}

func TestWithBeginHooks(t *testing.T) {
	inner := &fakeQ{}
	if WithBeginHooks(inner) != TxRunner(inner) {
		t.Fatal("no hooks should return the inner runner")
	}

	tx := WithBeginHooks(inner, SetLocal("lock_timeout", "5s"))
	err := WithTx(context.Background(), tx, func(q Queryer) error {
		_, err := q.Exec(context.Background(), "insert")
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if len(inner.execs) != 2 || inner.execs[1] != "insert" {
		t.Fatalf("hook should run first: %v", inner.execs)
	}
	if inner.args[0][0] != "lock_timeout" || inner.args[0][1] != "5s" {
		t.Fatalf("hook args = %v", inner.args[0])
	}

	boom := errors.New("hook failed")
	ran := false
	err = WithBeginHooks(inner, func(context.Context, Queryer) error { return boom }).
		Tx(context.Background(), func(Queryer) error { ran = true; return nil })
	if !errors.Is(err, boom) || ran {
		t.Fatalf("err=%v ran=%v", err, ran)
	}
}

type guardFn func(context.Context) error

func (g guardFn) Guard(ctx context.Context) error { return g(ctx) }

func TestMustGuard(t *testing.T) {
	MustGuard(context.Background(), guardFn(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("expected default deadline")
		}
		return nil
	}))
	kit.MustPanic(t, func() {
		MustGuard(context.Background(), guardFn(func(context.Context) error { return errors.New("down") }))
	})
}

func TestBindFunc(t *testing.T) {
	b := BindFunc[int](func(Queryer) int { return 5 })
	if MustBind[int](b, &fakeQ{}) != 5 {
		t.Fatal("bind result")
	}
	kit.MustPanic(t, func() { _ = MustBind[int](b, nil) })
}
