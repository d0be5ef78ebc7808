package tui

import (
	"testing"

	"opsdash-cli/internal/model"
)

func TestKanbanColumnsSplitByStatus(t *testing.T) {
	m := testModel(t, "tok-1")
	m.tasks = []model.Task{
		{ID: "1", Status: model.TaskTodo},
		{ID: "2", Status: model.TaskInProgress},
		{ID: "3", Status: model.TaskTodo},
		{ID: "4", Status: model.TaskDone},
		{ID: "5", Status: model.TaskStatus("UNKNOWN")},
	}

	cols := m.kanbanColumns()
	if len(cols[0]) != 2 || len(cols[1]) != 1 || len(cols[2]) != 1 {
		t.Fatalf("column sizes = %d/%d/%d", len(cols[0]), len(cols[1]), len(cols[2]))
	}
	if cols[0][0].ID != "1" || cols[0][1].ID != "3" {
		t.Fatalf("todo column out of order: %s, %s", cols[0][0].ID, cols[0][1].ID)
	}
}

func TestMoveTaskOffTheBoardIsIgnored(t *testing.T) {
	m := testModel(t, "tok-1")
	m.tasks = []model.Task{{ID: "1", Status: model.TaskTodo}}
	m.kanbanCol = 0
	m.kanbanRow = 0

	_, cmd := m.moveSelectedTask(-1)
	if cmd != nil {
		t.Fatalf("moving left from the first column should do nothing")
	}
}

func TestMoveTaskRightTargetsNextColumn(t *testing.T) {
	m := testModel(t, "tok-1")
	m.tasks = []model.Task{{ID: "1", Status: model.TaskTodo}}

	next, cmd := m.moveSelectedTask(1)
	if cmd == nil {
		t.Fatalf("expected a move command")
	}
	got := next.(appModel)
	if got.kanbanCol != 1 {
		t.Fatalf("selection column = %d, want 1", got.kanbanCol)
	}
}

func TestMoveWithEmptyColumnIsIgnored(t *testing.T) {
	m := testModel(t, "tok-1")
	m.kanbanCol = 1 // empty

	_, cmd := m.moveSelectedTask(1)
	if cmd != nil {
		t.Fatalf("empty column should not produce a command")
	}
}
