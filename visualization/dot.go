// Package visualization renders automata as Graphviz diagrams
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/stagefsm"
)

// popNode is the node that pop-only transitions point at
const popNode = "<pop>"

// DOTGenerator generates Graphviz DOT format representations of automata
type DOTGenerator[ID comparable] struct {
	automaton *stagefsm.Automaton[ID]
	options   DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowRuleOrder   bool
	ShowStack       bool
	RankDirection   string // "TB", "LR", "BT", "RL"
	NodeShape       string
	RememberStyle   string
	TransitionStyle string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowRuleOrder:   true,
		ShowStack:       true,
		RankDirection:   "LR",
		NodeShape:       "box",
		RememberStyle:   "dashed",
		TransitionStyle: "solid",
	}
}

// NewDOTGenerator creates a new DOT generator for the given automaton
func NewDOTGenerator[ID comparable](a *stagefsm.Automaton[ID], options ...DOTOptions) *DOTGenerator[ID] {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator[ID]{
		automaton: a,
		options:   opts,
	}
}

// Generate creates a DOT representation of the automaton
func (g *DOTGenerator[ID]) Generate() (string, error) {
	if g.automaton == nil {
		return "", fmt.Errorf("no automaton to render")
	}

	var dot strings.Builder

	dot.WriteString(fmt.Sprintf("digraph %q {\n", g.automaton.Name()))
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n")
	if n := g.automaton.Hijacks(); n > 0 {
		dot.WriteString(fmt.Sprintf("  label=\"%d transition hijack(s)\";\n", n))
	}
	dot.WriteString("\n")

	needsPop := g.generateTransitions(&dot)
	g.generateStates(&dot, needsPop)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateStates generates DOT nodes for all registered states
func (g *DOTGenerator[ID]) generateStates(dot *strings.Builder, needsPop bool) {
	depth := make(map[ID]int)
	stack := g.automaton.Stack()
	for i, state := range stack {
		depth[state.ID()] = len(stack) - i
	}

	dot.WriteString("  // States\n")
	for _, id := range g.automaton.States() {
		fillColor := "lightblue"
		label := fmt.Sprint(id)

		if g.options.ShowStack {
			switch depth[id] {
			case 0:
			case 1:
				fillColor = "lightgreen"
				label += "\\n(current)"
			default:
				fillColor = "lightyellow"
				label += "\\n(suspended)"
			}
		}

		dot.WriteString(fmt.Sprintf("  %q [style=\"filled\" fillcolor=%s label=\"%s\"];\n",
			fmt.Sprint(id), fillColor, label))
	}

	if needsPop {
		dot.WriteString(fmt.Sprintf("  %q [shape=point];\n", popNode))
	}
}

// generateTransitions generates DOT edges for all rules and reports whether
// any rule only pops.
func (g *DOTGenerator[ID]) generateTransitions(dot *strings.Builder) bool {
	needsPop := false

	dot.WriteString("  // Transitions\n")
	for _, source := range g.automaton.States() {
		for i, rule := range g.automaton.Transitions(source) {
			to := popNode
			if rule.Target.Valid {
				to = fmt.Sprint(rule.Target.ID)
			} else {
				needsPop = true
			}

			style := g.options.TransitionStyle
			if rule.RememberPrevious {
				style = g.options.RememberStyle
			}

			attrs := []string{fmt.Sprintf("style=%s", style)}
			if g.options.ShowRuleOrder {
				attrs = append(attrs, fmt.Sprintf("label=\"#%d\"", i+1))
			}

			dot.WriteString(fmt.Sprintf("  %q -> %q [%s];\n",
				fmt.Sprint(source), to, strings.Join(attrs, " ")))
		}
	}
	dot.WriteString("\n")

	return needsPop
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator[ID]) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// GenerateSVG converts the DOT output to SVG with the Graphviz dot command
func (g *DOTGenerator[ID]) GenerateSVG() (string, error) {
	dotContent, err := g.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
