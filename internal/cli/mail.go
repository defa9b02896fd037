package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/julianvz/mailterm/internal/domain"
)

func newListCmd() *cobra.Command {
	var (
		labelFlag string
		limitFlag int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached messages for a label",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			msgs, err := db.ListMessages(cmd.Context(), labelFlag, limitFlag, 0)
			if err != nil {
				return fmt.Errorf("failed to list messages: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONMessages(msgs))
			}

			if len(msgs) == 0 {
				fmt.Println("No cached messages. Run 'mailterm sync' first.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tSUBJECT\tDATE")
			for _, m := range msgs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					m.ID,
					m.DisplayFrom(),
					m.DisplaySubject(),
					m.RawDate,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&labelFlag, "label", domain.LabelInbox, "label to list")
	cmd.Flags().IntVar(&limitFlag, "limit", 25, "maximum number of messages")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the cached message index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			msgs, err := db.SearchMessages(cmd.Context(), args[0], limitFlag)
			if err != nil {
				return fmt.Errorf("failed to search: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONMessages(msgs))
			}

			if len(msgs) == 0 {
				fmt.Println("No results.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFROM\tSUBJECT")
			for _, m := range msgs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.DisplayFrom(), m.DisplaySubject())
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 25, "maximum number of results")
	return cmd
}

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List cached labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			labels, err := db.ListLabels(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list labels: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONLabels(labels))
			}

			if len(labels) == 0 {
				fmt.Println("No cached labels. Run 'mailterm sync' first.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE")
			for _, l := range labels {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.ID, l.Name, l.Type)
			}
			return w.Flush()
		},
	}
}
