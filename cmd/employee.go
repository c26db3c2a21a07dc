package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/usecase/records"
)

var employeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Manage employees",
}

var employeeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an employee",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		input := records.EmployeeInput{}
		input.Name, _ = cmd.Flags().GetString("name")
		input.RegistrationNumber, _ = cmd.Flags().GetString("registration")
		input.Role, _ = cmd.Flags().GetString("role")
		input.LicenseCategory, _ = cmd.Flags().GetString("license-category")
		input.LicenseExpiry, _ = cmd.Flags().GetString("license-expiry")

		created, err := svc.Records.CreateEmployee(ctx, input)
		if err != nil {
			logging.Error(ctx, "create employee failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create employee")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created employee: id=%d registration=%s\n", created.ID, created.RegistrationNumber); err != nil {
			return errs.Wrap(err, "write employee output")
		}
		return nil
	}),
}

var employeeUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an employee; only the given flags change",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, _ := cmd.Flags().GetUint64("id")
		current, err := svc.Records.GetEmployee(ctx, id)
		if err != nil {
			return errs.Wrapf(err, "load employee %d", id)
		}

		input := records.EmployeeInput{
			Name:               current.Name,
			RegistrationNumber: current.RegistrationNumber,
			Role:               current.Role,
			LicenseCategory:    current.LicenseCategory,
			LicenseExpiry:      current.LicenseExpiry,
		}
		overrideString(cmd, "name", &input.Name)
		overrideString(cmd, "registration", &input.RegistrationNumber)
		overrideString(cmd, "role", &input.Role)
		overrideString(cmd, "license-category", &input.LicenseCategory)
		overrideString(cmd, "license-expiry", &input.LicenseExpiry)

		updated, err := svc.Records.UpdateEmployee(ctx, id, input)
		if err != nil {
			logging.Error(ctx, "update employee failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "update employee")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "updated employee: id=%d name=%s\n", updated.ID, updated.Name); err != nil {
			return errs.Wrap(err, "write employee output")
		}
		return nil
	}),
}

var employeeDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an employee with their trainings and exams",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, _ := cmd.Flags().GetUint64("id")
		if err := svc.Records.DeleteEmployee(ctx, id); err != nil {
			return errs.Wrapf(err, "delete employee %d", id)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted employee: id=%d\n", id); err != nil {
			return errs.Wrap(err, "write employee output")
		}
		return nil
	}),
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		format, err := checkFormat(mustString(cmd, "format"))
		if err != nil {
			return err
		}
		items, err := svc.Records.ListEmployees(ctx)
		if err != nil {
			return errs.Wrap(err, "list employees")
		}
		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}

		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{
				idText(item.ID),
				item.RegistrationNumber,
				item.Name,
				item.Role,
				item.LicenseCategory,
				item.LicenseExpiry,
				string(item.LicenseStatus),
			})
		}
		return writeTable(cmd.OutOrStdout(),
			[]string{"ID", "REGISTRATION", "NAME", "ROLE", "LICENSE", "LICENSE EXPIRY", "STATUS"},
			rows, "no employees")
	}),
}

var employeeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one employee with trainings and exams",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, _ := cmd.Flags().GetUint64("id")
		emp, err := svc.Records.GetEmployee(ctx, id)
		if err != nil {
			return errs.Wrapf(err, "load employee %d", id)
		}
		trainings, err := svc.Records.ListTrainings(ctx, &id)
		if err != nil {
			return errs.Wrap(err, "list trainings")
		}
		exams, err := svc.Records.ListExams(ctx, &id)
		if err != nil {
			return errs.Wrap(err, "list exams")
		}

		format, err := checkFormat(mustString(cmd, "format"))
		if err != nil {
			return err
		}
		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"employee":  emp,
				"trainings": trainings,
				"exams":     exams,
			})
		}

		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "%s (registration %s) role=%s license=%s expiry=%s status=%s\n",
			emp.Name, emp.RegistrationNumber, emp.Role, emp.LicenseCategory, emp.LicenseExpiry, emp.LicenseStatus); err != nil {
			return errs.Wrap(err, "write employee output")
		}
		if err := writeTable(out, []string{"ID", "TRAINING", "PERFORMED", "EXPIRES", "STATUS", "DAYS"}, trainingRows(trainings), "no trainings"); err != nil {
			return err
		}
		return writeTable(out, []string{"ID", "EXAM", "DATE", "RESULT", "EXPIRES", "STATUS", "DAYS"}, examRows(exams), "no exams")
	}),
}

func overrideString(cmd *cobra.Command, flag string, dst *string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	*dst, _ = cmd.Flags().GetString(flag)
}

func mustString(cmd *cobra.Command, flag string) string {
	value, _ := cmd.Flags().GetString(flag)
	return value
}

func addEmployeeFlags(c *cobra.Command) {
	c.Flags().String("name", "", "Employee name")
	c.Flags().String("registration", "", "Registration number")
	c.Flags().String("role", "", "Job role")
	c.Flags().String("license-category", "", "Driver license category")
	c.Flags().String("license-expiry", "", "Driver license expiry date")
}

func init() {
	rootCmd.AddCommand(employeeCmd)
	employeeCmd.AddCommand(employeeAddCmd, employeeUpdateCmd, employeeDeleteCmd, employeeListCmd, employeeShowCmd)

	addEmployeeFlags(employeeAddCmd)
	_ = employeeAddCmd.MarkFlagRequired("name")
	_ = employeeAddCmd.MarkFlagRequired("registration")

	employeeUpdateCmd.Flags().Uint64("id", 0, "Employee id")
	addEmployeeFlags(employeeUpdateCmd)
	_ = employeeUpdateCmd.MarkFlagRequired("id")

	employeeDeleteCmd.Flags().Uint64("id", 0, "Employee id")
	_ = employeeDeleteCmd.MarkFlagRequired("id")

	employeeListCmd.Flags().String("format", formatText, "Output format (text|json)")

	employeeShowCmd.Flags().Uint64("id", 0, "Employee id")
	employeeShowCmd.Flags().String("format", formatText, "Output format (text|json)")
	_ = employeeShowCmd.MarkFlagRequired("id")
}
