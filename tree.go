package stepz

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeOption configures tree rendering.
type TreeOption func(*treeConfig)

type treeConfig struct {
	showUnions bool
}

// ShowUnions renders Union markers explicitly instead of collapsing them
// into their wrapped structure.
func ShowUnions() TreeOption {
	return func(cfg *treeConfig) {
		cfg.showUnions = true
	}
}

// Tree returns a deterministic, indentation-based rendering of a step's
// structure - the owned-children relationships assembled at construction
// time. Rendering never evaluates any step.
//
//	chain := stepz.Bind(stepz.Bind(a, b), stepz.NewFallback("pick", c, d))
//	fmt.Println(stepz.Tree(chain))
//	// Sequence(3)
//	//    |__a()
//	//    |__b()
//	//    |__Fallback(2)
//	//          |__c()
//	//          |__d()
//
// Composites render as their kind plus child count; leaves render as
// name(). A loop's feedback child is prefixed |_<< to set it apart from
// the outward-producing child.
func Tree(s Step, opts ...TreeOption) string {
	var cfg treeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return strings.Join(treeRows(s, cfg), "\n")
}

func treeRows(s Step, cfg treeConfig) []string {
	switch t := s.(type) {
	case *Sequence:
		t.mu.RLock()
		steps := append([]Step(nil), t.steps...)
		t.mu.RUnlock()
		return branchRows("Sequence", "Sequence("+strconv.Itoa(len(steps))+")", childBlocks(steps, cfg), false)
	case *Fallback:
		t.mu.RLock()
		steps := append([]Step(nil), t.steps...)
		t.mu.RUnlock()
		return branchRows("Fallback", "Fallback("+strconv.Itoa(len(steps))+")", childBlocks(steps, cfg), false)
	case *Loop:
		children := []childRows{
			{rows: treeRows(t.Primary(), cfg)},
			{rows: treeRows(t.LoopStep(), cfg)},
		}
		return branchRows("Loop", "Loop()", children, true)
	case *Union:
		if !cfg.showUnions {
			return treeRows(t.step, cfg)
		}
		return branchRows("Union", "Union()", []childRows{{rows: treeRows(t.step, cfg)}}, false)
	case *TuplePack:
		return branchRows("TuplePack", "TuplePack("+strconv.Itoa(len(t.steps))+")", childBlocks(t.steps, cfg), false)
	case *ListPack:
		return branchRows("ListPack", "ListPack("+strconv.Itoa(len(t.steps))+")", childBlocks(t.steps, cfg), false)
	case *MapPack:
		children := make([]childRows, len(t.keys))
		for i, k := range t.keys {
			children[i] = childRows{
				label: strconv.Quote(k) + ": ",
				rows:  treeRows(t.steps[k], cfg),
			}
		}
		return branchRows("MapPack", "MapPack("+strconv.Itoa(len(t.keys))+")", children, false)
	case *SetPack:
		return branchRows("SetPack", "SetPack("+strconv.Itoa(len(t.steps))+")", childBlocks(t.steps, cfg), false)
	default:
		return []string{string(s.Name()) + "()"}
	}
}

// childRows is one child's rendered block, with an optional first-line
// label prefix (map keys).
type childRows struct {
	label string
	rows  []string
}

func childBlocks(steps []Step, cfg treeConfig) []childRows {
	blocks := make([]childRows, len(steps))
	for i, s := range steps {
		blocks[i] = childRows{rows: treeRows(s, cfg)}
	}
	return blocks
}

// branchRows lays out a composite's children under its header row. The
// indent is keyed to half the composite's type-name length, child rows
// hang off |__ connectors with a | rail between siblings, and the last
// child's continuation drops the rail. loopLast renders the final child
// with the |_<< feedback connector.
func branchRows(typeName, header string, children []childRows, loopLast bool) []string {
	rows := []string{header}
	if len(children) == 0 {
		return rows
	}

	indent := len(typeName)/2 - 1
	if indent < 0 {
		indent = 0
	}
	spaces := strings.Repeat(" ", indent)

	for _, c := range children[:len(children)-1] {
		rows = append(rows, spaces+"|__"+c.label+c.rows[0])
		if len(c.rows) > 1 {
			for _, r := range c.rows[1:] {
				rows = append(rows, spaces+"|  "+r)
			}
			rows = append(rows, spaces+"|")
		}
	}

	last := children[len(children)-1]
	connector := spaces + "|__"
	if loopLast {
		connector = spaces + "|_<< "
	}
	rows = append(rows, connector+last.label+last.rows[0])
	for _, r := range last.rows[1:] {
		rows = append(rows, spaces+" "+spaces+r)
	}
	return rows
}

// stepLabel is the single-line label used by the String methods:
// a child's own Stringer when it has one, otherwise name().
func stepLabel(s Step) string {
	if str, ok := s.(fmt.Stringer); ok {
		return str.String()
	}
	return string(s.Name()) + "()"
}

func joinLabels(steps []Step, sep string) string {
	labels := make([]string, len(steps))
	for i, s := range steps {
		labels[i] = stepLabel(s)
	}
	return strings.Join(labels, sep)
}
