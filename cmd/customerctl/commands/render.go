package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samvad-hq/samvad-customers/pkg/customers"
	"gopkg.in/yaml.v3"
)

func renderCustomers(w io.Writer, output string, list []customers.Customer) error {
	switch output {
	case OutputFormatJSON:
		return renderJSON(w, list)
	case OutputFormatYAML:
		return renderYAML(w, list)
	case OutputFormatTable, "":
		return renderCustomerTable(w, list)
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

func renderCustomer(w io.Writer, output string, c customers.Customer) error {
	switch output {
	case OutputFormatJSON:
		return renderJSON(w, c)
	case OutputFormatYAML:
		return renderYAML(w, c)
	case OutputFormatTable, "":
		return renderCustomerTable(w, []customers.Customer{c})
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

func renderCustomerTable(w io.Writer, list []customers.Customer) error {
	if len(list) == 0 {
		_, _ = io.WriteString(w, "No customers found\n")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Email", "Age", "Gender")
	for _, c := range list {
		_ = table.Append(strconv.Itoa(c.ID), c.Name, c.Email, strconv.Itoa(c.Age), string(c.Gender))
	}
	return table.Render()
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
