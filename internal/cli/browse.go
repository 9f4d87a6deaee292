package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// newBrowseCmd creates the browse command for interactively picking a
// person from a GEDCOM file.
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Interactively pick a person from a GEDCOM file",
		Long: `Browse lists every person in a GEDCOM file in an interactive table.
Type to filter by name or id, select a person with enter, and gedtree
prints the render command for that person.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), args[0])
		},
	}
}

func runBrowse(ctx context.Context, input string) error {
	graph, err := loadGraph(ctx, input)
	if err != nil {
		return err
	}

	printInfo("%d persons, %d families in %s", graph.PersonCount(), graph.FamilyCount(), input)

	model := newPersonListModel(graph.Persons())
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	result, ok := final.(personListModel)
	if !ok || result.Selected == nil {
		printInfo("No person selected")
		return nil
	}

	p := result.Selected
	printSuccess("Selected %s (%s)", p.Name, p.ID)
	if p.ChildFamily != nil {
		printDetail("Parent family: %s", p.ChildFamily.ID)
	}
	for _, fam := range p.ParentFamilies {
		printDetail("Family: %s (%d children)", fam.ID, len(fam.Children))
	}
	printNewline()
	printNextStep("Render this person", fmt.Sprintf("%s render %s %s", appName, input, p.ID))
	return nil
}
