package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"firedam/internal/application/commands"
	"firedam/internal/domain"
)

var outputFormats = []string{"json", "yaml", "table"}

type searchOutputBody struct {
	Resource string                `json:"resource" yaml:"resource"`
	Count    int                   `json:"count" yaml:"count"`
	Records  []domain.ResultRecord `json:"records" yaml:"records"`
}

func writeRecords(w io.Writer, format string, desc domain.ResourceDescriptor, records []domain.ResultRecord) error {
	switch format {
	case "table":
		cols := recordColumns(desc, records)
		rows := make([][]string, len(records))
		for i, r := range records {
			row := make([]string, len(cols))
			for j, c := range cols {
				row[j] = cell(r[c])
			}
			rows[i] = row
		}
		_, err := fmt.Fprintln(w, renderTable(cols, rows))
		if err == nil {
			_, err = fmt.Fprintf(w, "%d %s\n", len(records), desc.Name())
		}
		return err
	default:
		return encode(w, format, searchOutputBody{
			Resource: desc.Name(),
			Count:    len(records),
			Records:  records,
		})
	}
}

func writeResources(w io.Writer, format string, infos []commands.ResourceInfo) error {
	if format != "table" {
		return encode(w, format, infos)
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%s): %s\n", info.Name, info.Kind, info.Description)

		rows := make([][]string, 0, len(info.Attributes))
		for _, a := range info.Attributes {
			note := strings.Join(a.Values, "|")
			if a.Listing {
				note = "listing prefix"
			}
			rows = append(rows, []string{a.Name, a.Type, note})
		}
		fmt.Fprintln(w, renderTable([]string{"filter key", "type", "notes"}, rows))

		fields := make([]string, len(info.Fields))
		for j, f := range info.Fields {
			fields[j] = f.Name
			if f.Required {
				fields[j] += "*"
			}
		}
		fmt.Fprintf(w, "fields: %s\n", strings.Join(fields, ", "))
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

// recordColumns lists the output fields present in at least one record,
// in schema order
func recordColumns(desc domain.ResourceDescriptor, records []domain.ResultRecord) []string {
	var cols []string
	for _, f := range desc.OutputFields() {
		for _, r := range records {
			if _, ok := r[f.Name]; ok {
				cols = append(cols, f.Name)
				break
			}
		}
	}
	return cols
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(t, ", ")
	default:
		return fmt.Sprint(t)
	}
}
