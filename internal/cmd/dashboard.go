package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/superset-community/superset-go"
	"github.com/superset-community/superset-go/internal/outfmt"
	"github.com/superset-community/superset-go/internal/resolve"
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Inspect and export dashboards",
	}

	cmd.AddCommand(newDashboardGetCmd())
	cmd.AddCommand(newDashboardListCmd())
	cmd.AddCommand(newDashboardUUIDCmd())
	cmd.AddCommand(newDashboardFindCmd())
	cmd.AddCommand(newDashboardPullCmd())

	return cmd
}

func newDashboardGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id-or-slug>",
		Short: "Fetch one dashboard by numeric id or slug",
		Example: strings.TrimSpace(`
  # By numeric id
  superset dashboard get 42

  # By slug
  superset dashboard get sales-overview

  # Raw wire format, filtered
  superset dashboard get 42 --jq .dashboard_title
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			dashboard, err := client.GetDashboard(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				wire, err := client.DehydrateDashboard(dashboard)
				if err != nil {
					return err
				}
				return printJSON(cmd, wire)
			}

			printDashboardText(cmd, dashboard)
			return nil
		},
	}
	return cmd
}

func printDashboardText(cmd *cobra.Command, d *superset.Dashboard) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s (id %d)\n", d.Name(), d.ID)
	if d.Slug != nil && *d.Slug != "" {
		_, _ = fmt.Fprintf(out, "  Slug: %s\n", *d.Slug)
	}
	if d.URL != nil && *d.URL != "" {
		_, _ = fmt.Fprintf(out, "  URL: %s\n", *d.URL)
	}
	if d.IsPublished != nil {
		_, _ = fmt.Fprintf(out, "  Published: %t\n", *d.IsPublished)
	}
	if d.UpdatedAt != nil {
		_, _ = fmt.Fprintf(out, "  Updated: %s\n", d.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if len(d.Owners) > 0 {
		names := make([]string, 0, len(d.Owners))
		for _, owner := range d.Owners {
			first, _ := owner["first_name"].(string)
			last, _ := owner["last_name"].(string)
			name := strings.TrimSpace(first + " " + last)
			if name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			_, _ = fmt.Fprintf(out, "  Owners: %s\n", strings.Join(names, ", "))
		}
	}
	if len(d.Tags) > 0 {
		names := make([]string, 0, len(d.Tags))
		for _, tag := range d.Tags {
			if name, ok := tag["name"].(string); ok && name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			_, _ = fmt.Fprintf(out, "  Tags: %s\n", strings.Join(names, ", "))
		}
	}
}

func newDashboardListCmd() *cobra.Command {
	var (
		tag         string
		published   bool
		unpublished bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List dashboards",
		Example: strings.TrimSpace(`
  # All dashboards
  superset dashboard list

  # Published dashboards carrying a tag
  superset dashboard list --tag finance --published

  # Ids only
  superset dashboard list --jq '.[].id'
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if published && unpublished {
				return fmt.Errorf("--published and --unpublished cannot be used together")
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			opts := superset.ListOptions{}
			if tag != "" {
				opts.Tag = superset.String(tag)
			}
			if published {
				opts.OnlyPublished = superset.Bool(true)
			}
			if unpublished {
				opts.OnlyPublished = superset.Bool(false)
			}

			dashboards, err := client.GetDashboards(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				wire := make([]map[string]any, 0, len(dashboards))
				for _, dashboard := range dashboards {
					entry, err := client.DehydrateDashboard(dashboard)
					if err != nil {
						return err
					}
					wire = append(wire, entry)
				}
				return printJSON(cmd, wire)
			}

			if len(dashboards) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No dashboards found.")
				return nil
			}
			for _, dashboard := range dashboards {
				status := ""
				if dashboard.IsPublished != nil && *dashboard.IsPublished {
					status = " [published]"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s%s\n", dashboard.ID, dashboard.Name(), status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Only dashboards carrying this tag")
	cmd.Flags().BoolVar(&published, "published", false, "Only published dashboards")
	cmd.Flags().BoolVar(&unpublished, "unpublished", false, "Only unpublished dashboards")

	return cmd
}

func newDashboardUUIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uuid <id-or-slug>",
		Short: "Print the embedded-dashboard uuid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			uuid, err := client.GetDashboardUUID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"uuid": uuid})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), uuid)
			return nil
		},
	}
	return cmd
}

func newDashboardFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Resolve a dashboard by fuzzy name match",
		Example: strings.TrimSpace(`
  # Find the dashboard whose title best matches "sales"
  superset dashboard find sales
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			dashboards, err := client.GetDashboards(cmd.Context(), superset.ListOptions{})
			if err != nil {
				return err
			}

			candidates := make([]resolve.Candidate, len(dashboards))
			byID := make(map[int]*superset.Dashboard, len(dashboards))
			for i, dashboard := range dashboards {
				candidates[i] = resolve.Candidate{ID: dashboard.ID, Name: dashboard.Name()}
				byID[dashboard.ID] = dashboard
			}

			id, err := resolve.Dashboard(args[0], candidates)
			if err != nil {
				return err
			}

			match := byID[id]
			if isJSON(cmd) {
				wire, err := client.DehydrateDashboard(match)
				if err != nil {
					return err
				}
				return printJSON(cmd, wire)
			}
			printDashboardText(cmd, match)
			return nil
		},
	}
	return cmd
}

func newDashboardPullCmd() *cobra.Command {
	var (
		dir         string
		tag         string
		concurrency int64
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Export dashboards to JSON files",
		Long:  "Fetch every matching dashboard and write its wire-format JSON to one file per dashboard.",
		Example: strings.TrimSpace(`
  # Export all dashboards to ./dashboards
  superset dashboard pull --dir dashboards

  # Export tagged dashboards with higher parallelism
  superset dashboard pull --dir dashboards --tag finance --concurrency 10
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			opts := superset.ListOptions{}
			if tag != "" {
				opts.Tag = superset.String(tag)
			}
			dashboards, err := client.GetDashboards(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if len(dashboards) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No dashboards to export.")
				return nil
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create --dir %q: %w", dir, err)
			}

			ids := make([]int, len(dashboards))
			for i, dashboard := range dashboards {
				ids[i] = dashboard.ID
			}

			results := pullDashboards(cmd.Context(), client, ids, concurrency, dir)

			failures := 0
			for _, result := range results {
				if result.Err != nil {
					failures++
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "dashboard %d: %v\n", result.ID, result.Err)
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d/%d dashboards to %s\n",
				len(results)-failures, len(results), dir)
			if failures > 0 {
				return fmt.Errorf("%d of %d dashboards failed to export", failures, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "dashboards", "Directory to write dashboard JSON files into")
	cmd.Flags().StringVar(&tag, "tag", "", "Only dashboards carrying this tag")
	cmd.Flags().Int64Var(&concurrency, "concurrency", defaultPullConcurrency, "Concurrent dashboard fetches")

	return cmd
}

const defaultPullConcurrency = 5

type pullResult struct {
	ID   int
	Path string
	Err  error
}

// pullDashboards fetches dashboards concurrently with bounded parallelism and
// writes each to <dir>/dashboard-<id>.json. Individual failures are recorded
// per dashboard instead of aborting the batch.
func pullDashboards(ctx context.Context, client *superset.Client, ids []int, concurrency int64, dir string) []pullResult {
	if concurrency <= 0 {
		concurrency = defaultPullConcurrency
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]pullResult, 0, len(ids))

	g, ctx := errgroup.WithContext(ctx)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			if ctx.Err() != nil {
				return nil
			}

			path, err := pullOne(ctx, client, id, dir)

			mu.Lock()
			results = append(results, pullResult{ID: id, Path: path, Err: err})
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

func pullOne(ctx context.Context, client *superset.Client, id int, dir string) (string, error) {
	dashboard, err := client.GetDashboard(ctx, fmt.Sprintf("%d", id))
	if err != nil {
		return "", err
	}
	wire, err := client.DehydrateDashboard(dashboard)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("dashboard-%d.json", id))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	if err := outfmt.WriteJSON(file, wire); err != nil {
		return "", err
	}
	return path, nil
}
