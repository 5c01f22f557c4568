package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/samvad-customers/pkg/customers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var ErrNoChanges = errors.New("no fields to update; pass --name, --email or --age")

func newListCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List customers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient(v).ListCustomers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list customers: %w", err)
			}
			list, err := customers.DecodeCustomers(resp)
			if err != nil {
				return err
			}
			return renderCustomers(cmd.OutOrStdout(), v.GetString(keyOutput), list)
		},
	}
}

func newGetCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get CUSTOMER_ID",
		Short: "Show a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient(v).GetCustomer(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get customer: %w", err)
			}
			c, err := customers.DecodeCustomer(resp)
			if err != nil {
				return err
			}
			return renderCustomer(cmd.OutOrStdout(), v.GetString(keyOutput), c)
		},
	}
}

func newSaveCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Register a new customer",
		Long: `Register a new customer from flags or from a YAML/JSON file.

The payload is sent as is; the server validates it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := registrationFromFlags(cmd)
			if err != nil {
				return err
			}
			resp, err := newClient(v).SaveCustomer(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("save customer: %w", err)
			}
			c, err := customers.DecodeCustomer(resp)
			if err != nil {
				return err
			}
			return renderCustomer(cmd.OutOrStdout(), v.GetString(keyOutput), c)
		},
	}

	cmd.Flags().String("name", "", "customer name")
	cmd.Flags().String("email", "", "customer email")
	cmd.Flags().Int("age", 0, "customer age")
	cmd.Flags().String("gender", "", "customer gender (MALE or FEMALE)")
	cmd.Flags().StringP("file", "f", "", "read the customer from a YAML or JSON file")
	return cmd
}

func newUpdateCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update CUSTOMER_ID",
		Short: "Update a customer",
		Long:  "Update the given fields of an existing customer; omitted fields are left unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req customers.UpdateRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				name, _ := flags.GetString("name")
				req.Name = &name
			}
			if flags.Changed("email") {
				email, _ := flags.GetString("email")
				req.Email = &email
			}
			if flags.Changed("age") {
				age, _ := flags.GetInt("age")
				req.Age = &age
			}
			if req.Name == nil && req.Email == nil && req.Age == nil {
				return ErrNoChanges
			}

			resp, err := newClient(v).UpdateCustomer(cmd.Context(), args[0], req)
			if err != nil {
				return fmt.Errorf("update customer: %w", err)
			}
			c, err := customers.DecodeCustomer(resp)
			if err != nil {
				return err
			}
			return renderCustomer(cmd.OutOrStdout(), v.GetString(keyOutput), c)
		},
	}

	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("email", "", "new email")
	cmd.Flags().Int("age", 0, "new age")
	return cmd
}

func newDeleteCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "delete CUSTOMER_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a customer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient(v).DeleteCustomer(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("delete customer: %w", err)
			}
			if err := customers.CheckStatus(resp); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "customer %s deleted\n", args[0])
			return nil
		},
	}
}

func registrationFromFlags(cmd *cobra.Command) (customers.RegistrationRequest, error) {
	flags := cmd.Flags()
	if path, _ := flags.GetString("file"); strings.TrimSpace(path) != "" {
		return readRegistrationFile(path)
	}

	var req customers.RegistrationRequest
	req.Name, _ = flags.GetString("name")
	req.Email, _ = flags.GetString("email")
	req.Age, _ = flags.GetInt("age")
	gender, _ := flags.GetString("gender")
	req.Gender = customers.Gender(gender)
	return req, nil
}

// readRegistrationFile decodes a customer from YAML or JSON, picking the
// decoder from the file extension and trying both when it is unknown.
func readRegistrationFile(path string) (customers.RegistrationRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return customers.RegistrationRequest{}, fmt.Errorf("read customer file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	known := false
	for _, d := range decoders {
		if ext == d.ext {
			known = true
			break
		}
	}
	for _, d := range decoders {
		if known && ext != d.ext {
			continue
		}
		var req customers.RegistrationRequest
		if err := d.fn(raw, &req); err == nil {
			return req, nil
		}
	}
	return customers.RegistrationRequest{}, fmt.Errorf("customer file %s: format not recognized (expected YAML or JSON)", path)
}
