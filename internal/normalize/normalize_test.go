package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/critpath/internal/dag"
	"github.com/papapumpkin/critpath/internal/task"
	"github.com/papapumpkin/critpath/internal/taskfile"
)

func parse(t *testing.T, src string) *taskfile.Document {
	t.Helper()
	doc, err := taskfile.Parse([]byte(src), taskfile.FormatLines)
	require.NoError(t, err)
	return doc
}

func TestDurations_DuplicatesWithSameValue(t *testing.T) {
	doc := parse(t, "A(2)\nB(1) after A\nA(2)\n")
	got, err := Durations(doc.Durations)
	require.NoError(t, err)
	assert.Equal(t, map[task.Label]task.Duration{
		task.MustLabel("A"): 2,
		task.MustLabel("B"): 1,
	}, got)
}

func TestDurations_Conflict(t *testing.T) {
	doc := parse(t, "A(2)\nB(1)\nA(3)\n")
	_, err := Durations(doc.Durations)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingDuration)

	var ce *ConflictingDurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "A", ce.Label.String())
	assert.Equal(t, task.Duration(2), ce.First)
	assert.Equal(t, task.Duration(3), ce.Second)
	assert.EqualError(t, err, `line 3: task "A" declared with durations 2 and 3`)
}

func TestOrders_Union(t *testing.T) {
	doc := parse(t, "A(1)\nB(1) after A\nB(1) after A\nC(1) after A, B\n")
	set, err := Orders(doc.Orders)
	require.NoError(t, err)

	// A, A->B, A->C, B->C
	assert.Equal(t, 4, set.Len())
	var got []string
	for _, o := range set.Sorted() {
		got = append(got, o.String())
	}
	assert.Equal(t, []string{"A", "A -> B", "A -> C", "B -> C"}, got)
}

func TestOrders_SelfDependency(t *testing.T) {
	doc := parse(t, "A(1)\nB(1) after B\n")
	_, err := Orders(doc.Orders)
	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrSelfDependency)
	assert.Contains(t, err.Error(), "line 2")
}

func TestProcess(t *testing.T) {
	doc := parse(t, `
A(1)
B(2) after A
C(3) after A
D(4) after B, C
`)
	a, err := Process(doc, dag.Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, a.TaskCount())
	assert.Equal(t, task.TotalDuration(8), a.MinimumCompletionTime())
	require.Equal(t, 1, a.CriticalPathCount())
	assert.Equal(t, "A->C->D", a.CriticalPaths()[0].String())
}

func TestProcess_Structured(t *testing.T) {
	doc, err := taskfile.Parse([]byte(`
tasks:
  - name: P
    duration: 4
  - name: T
    duration: 6
    after: [P]
`), taskfile.FormatYAML)
	require.NoError(t, err)

	a, err := Process(doc, dag.Options{})
	require.NoError(t, err)
	assert.Equal(t, task.TotalDuration(10), a.MinimumCompletionTime())
	assert.Equal(t, 1, a.MaxParallelism())
}

func TestProcess_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "# nothing here\n", dag.ErrEmptyInput},
		{"missing duration", "B(1) after A\n", dag.ErrMissingDurations},
		{"cycle", "A(1) after B\nB(1) after A\n", dag.ErrCycle},
		{"conflict", "A(1)\nA(2)\n", ErrConflictingDuration},
		{"self", "A(1) after A\n", task.ErrSelfDependency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(parse(t, tt.src), dag.Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
