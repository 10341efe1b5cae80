package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/agviewer/internal/style"
)

func init() {
	styleCmd.AddCommand(styleListCmd)
	styleCmd.AddCommand(styleColorCmd)
	styleCmd.AddCommand(styleSizeCmd)
	styleCmd.AddCommand(styleCaptionCmd)
	rootCmd.AddCommand(styleCmd)
}

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Inspect and change label colors, sizes and captions",
	Long: `Inspect and change the color, size and caption assigned to each label.

A label gets a random palette color the first time it is seen and keeps it
until reassigned. Assignments are stored in the state database.`,
}

var styleListCmd = &cobra.Command{
	Use:   "list [node|edge]",
	Short: "List palette slots and label assignments",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStyleList,
}

var styleColorCmd = &cobra.Command{
	Use:   "color <node|edge> <label> <color>",
	Short: "Assign a label to the palette slot with the given color",
	Long: `Assign a label to the palette slot with the given color.

If no slot has that color the label is unassigned and gets a random
slot the next time it is drawn.

Examples:
  agv style color node Person "#10B981"`,
	Args: cobra.ExactArgs(3),
	RunE: runStyleColor,
}

var styleSizeCmd = &cobra.Command{
	Use:   "size <node|edge> <label> <size>",
	Short: "Assign a label to a size bucket",
	Long: `Assign a label to a size bucket.

Node sizes: 25, 50, 75, 100, 125. Edge widths: 1, 6, 11, 16, 21.`,
	Args: cobra.ExactArgs(3),
	RunE: runStyleSize,
}

var styleCaptionCmd = &cobra.Command{
	Use:   "caption <node|edge> <label> <caption>",
	Short: "Set the property shown as a label's caption",
	Long: `Set the property shown as a label's caption.

Use "gid" for the entity id, "label" for the label name, or any property key.`,
	Args: cobra.ExactArgs(3),
	RunE: runStyleCaption,
}

// StyleListResponse is the response for style list.
type StyleListResponse struct {
	Node        []style.Slot       `json:"node,omitempty"`
	Edge        []style.Slot       `json:"edge,omitempty"`
	Assignments []style.Assignment `json:"assignments"`
}

// StyleUpdateResponse is the response for style updates.
type StyleUpdateResponse struct {
	Status string     `json:"status"`
	Kind   style.Kind `json:"kind"`
	Label  string     `json:"label"`
	Value  string     `json:"value"`
}

func runStyleList(cmd *cobra.Command, args []string) error {
	w := mustOpenWorkspace(false)
	defer w.Close()

	kinds := []style.Kind{style.KindNode, style.KindEdge}
	if len(args) == 1 {
		kinds = []style.Kind{mustParseKind(args[0])}
	}

	resp := StyleListResponse{Assignments: w.styles.Assignments()}
	for _, k := range kinds {
		switch k {
		case style.KindNode:
			resp.Node = w.styles.Slots(k)
		case style.KindEdge:
			resp.Edge = w.styles.Slots(k)
		}
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	printSlotsHuman("Node palette", resp.Node)
	printSlotsHuman("Edge palette", resp.Edge)
	return nil
}

func printSlotsHuman(title string, slots []style.Slot) {
	if len(slots) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, s := range slots {
		fmt.Printf("  %2d  %s  %s\n", s.Index, s.Style.Color, strings.Join(s.Labels, ", "))
	}
	fmt.Println()
}

func runStyleColor(cmd *cobra.Command, args []string) error {
	kind := mustParseKind(args[0])
	w := mustOpenWorkspace(false)
	defer w.Close()

	matched := w.svc.SetLabelColor(kind, args[1], style.LabelStyle{Color: args[2]})
	return outputStyleUpdate(kind, args[1], args[2], matched)
}

func runStyleSize(cmd *cobra.Command, args []string) error {
	kind := mustParseKind(args[0])
	size, err := strconv.Atoi(args[2])
	if err != nil {
		exitWithError(ExitError, "invalid size %q: %v", args[2], err)
	}

	w := mustOpenWorkspace(false)
	defer w.Close()

	matched := w.svc.SetLabelSize(kind, args[1], size)
	return outputStyleUpdate(kind, args[1], args[2], matched)
}

func runStyleCaption(cmd *cobra.Command, args []string) error {
	kind := mustParseKind(args[0])
	w := mustOpenWorkspace(false)
	defer w.Close()

	w.svc.SetLabelCaption(kind, args[1], args[2])
	return outputStyleUpdate(kind, args[1], args[2], true)
}

// outputStyleUpdate reports an assignment. An unmatched color or size leaves
// the label unassigned.
func outputStyleUpdate(kind style.Kind, label, value string, matched bool) error {
	status := "assigned"
	if !matched {
		status = "unassigned"
	}
	if humanOutput {
		outputHuman("%s %s %q: %s\n", status, kind, label, value)
		return nil
	}
	return outputJSON(StyleUpdateResponse{Status: status, Kind: kind, Label: label, Value: value})
}

// mustParseKind parses a kind argument, exits on error.
func mustParseKind(s string) style.Kind {
	kind, err := style.ParseKind(s)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return kind
}
