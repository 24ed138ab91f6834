package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/cursor"

	"github.com/kingrea/jobboard/internal/catalog"
)

func TestDropdownSingleSelect(t *testing.T) {
	d := newDropdown("Sort", catalog.SortOptions(), cursor.CursorStatic)
	if got := d.Display(); got != "Select an option" {
		t.Fatalf("unexpected placeholder %q", got)
	}
	d.Open()
	if changed, _ := d.Update(keyMsg("down")); changed {
		t.Fatalf("moving the cursor is not a selection")
	}
	changed, _ := d.Update(keyMsg("enter"))
	if !changed {
		t.Fatalf("enter should select")
	}
	if d.IsOpen() {
		t.Fatalf("single select should close on selection")
	}
	if got := d.Value(); got != string(catalog.SortNewest) {
		t.Fatalf("expected newest, got %q", got)
	}
	if got := d.Display(); got != "Newest First" {
		t.Fatalf("expected label, got %q", got)
	}
}

func TestDropdownKeyboardWithoutSearch(t *testing.T) {
	d := newDropdown("Type", catalog.JobTypeOptions(), cursor.CursorStatic, withPlaceholder("Any type"))
	if got := d.Display(); got != "Any type" {
		t.Fatalf("unexpected placeholder %q", got)
	}
	d.Open()
	d.Update(keyMsg("j"))
	d.Update(keyMsg("j"))
	d.Update(keyMsg("k"))
	d.Update(keyMsg("enter"))
	if got := d.Value(); got != "part-time" {
		t.Fatalf("expected part-time, got %q", got)
	}
	d.Open()
	d.Update(keyMsg("esc"))
	if d.IsOpen() {
		t.Fatalf("esc should close")
	}
	if got := d.Value(); got != "part-time" {
		t.Fatalf("esc should keep the selection, got %q", got)
	}
}

func TestDropdownSearchNarrowsOptions(t *testing.T) {
	options := []catalog.Option{
		catalog.NewOption("techcorp", "TechCorp Solutions"),
		catalog.NewOption("innovatelabs", "InnovateLabs"),
		catalog.NewOption("brightpath", "BrightPath"),
	}
	d := newDropdown("Company", options, cursor.CursorStatic, withSearch())
	d.Open()
	d.Update(keyMsg("bright"))
	visible := d.Visible()
	if len(visible) != 1 || visible[0].Value != "brightpath" {
		t.Fatalf("expected only BrightPath, got %v", visible)
	}
	d.Update(keyMsg("enter"))
	if got := d.Value(); got != "brightpath" {
		t.Fatalf("expected brightpath, got %q", got)
	}

	d.Open()
	if got := len(d.Visible()); got != len(options) {
		t.Fatalf("reopening should clear the search, got %d options", got)
	}
	d.Update(keyMsg("zzz"))
	if got := len(d.Visible()); got != 0 {
		t.Fatalf("expected no matches, got %d", got)
	}
	if changed, _ := d.Update(keyMsg("enter")); changed {
		t.Fatalf("enter with no matches should not select")
	}
}
