package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dimitrije/cms-api/internal/models"
	"gopkg.in/yaml.v3"
)

// encode writes v as JSON or YAML. Text output is handled per command.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeContents(w io.Writer, format string, contents []models.Content) error {
	if format != "text" {
		return encode(w, format, contents)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFIELDS")
	for _, c := range contents {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, strings.Join(c.Fields, ","))
	}
	return tw.Flush()
}

func writeMutation(w io.Writer, format, name string, m *models.FieldMutation) error {
	if format != "text" {
		return encode(w, format, m)
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", name, strings.Join(m.Fields, ","))
	return err
}

// collectionView decodes the raw entry so YAML renders it as a document
// instead of a byte list.
type collectionView struct {
	ID        int64   `json:"id" yaml:"id"`
	ContentID int64   `json:"content_id" yaml:"content_id"`
	Name      *string `json:"name,omitempty" yaml:"name,omitempty"`
	Entry     any     `json:"entry" yaml:"entry"`
}

func newCollectionView(c models.Collection) collectionView {
	var entry any
	_ = json.Unmarshal(c.Entry, &entry)
	return collectionView{ID: c.ID, ContentID: c.ContentID, Name: c.Name, Entry: entry}
}

func collectionName(c models.Collection) string {
	if c.Name == nil {
		return "-"
	}
	return *c.Name
}

func writeCollections(w io.Writer, format string, collections []models.Collection) error {
	if format != "text" {
		views := make([]collectionView, 0, len(collections))
		for _, c := range collections {
			views = append(views, newCollectionView(c))
		}
		return encode(w, format, views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tENTRY")
	for _, c := range collections {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, collectionName(c), c.Entry)
	}
	return tw.Flush()
}

func writeCollection(w io.Writer, format string, c *models.Collection) error {
	if format != "text" {
		return encode(w, format, newCollectionView(*c))
	}
	_, err := fmt.Fprintf(w, "%d %s: %s\n", c.ID, collectionName(*c), c.Entry)
	return err
}

func writeImport(w io.Writer, format string, result *models.ImportResult) error {
	if format != "text" {
		return encode(w, format, result)
	}

	for _, c := range result.Created {
		fmt.Fprintf(w, "created %s: %s\n", c.Name, strings.Join(c.Fields, ","))
	}
	for _, c := range result.Updated {
		fmt.Fprintf(w, "updated %s: %s\n", c.Name, strings.Join(c.Fields, ","))
	}
	for _, name := range result.Skipped {
		fmt.Fprintf(w, "skipped %s\n", name)
	}
	return nil
}
