package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/usecase/records"
)

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Manage training records",
}

var trainingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a completed training",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		input := records.TrainingInput{}
		input.EmployeeID, _ = cmd.Flags().GetUint64("employee-id")
		input.TrainingName, _ = cmd.Flags().GetString("name")
		input.PerformedOn, _ = cmd.Flags().GetString("performed-on")
		input.ExpiresOn, _ = cmd.Flags().GetString("expires-on")

		created, err := svc.Records.AddTraining(ctx, input)
		if err != nil {
			logging.Error(ctx, "add training failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "add training")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created training: id=%d employee=%s\n", created.ID, created.EmployeeName); err != nil {
			return errs.Wrap(err, "write training output")
		}
		return nil
	}),
}

var trainingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trainings",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		format, err := checkFormat(mustString(cmd, "format"))
		if err != nil {
			return err
		}
		items, err := svc.Records.ListTrainings(ctx, employeeFilter(cmd))
		if err != nil {
			return errs.Wrap(err, "list trainings")
		}
		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		return writeTable(cmd.OutOrStdout(), []string{"ID", "EMPLOYEE", "TRAINING", "PERFORMED", "EXPIRES", "STATUS", "DAYS"}, trainingRowsWithEmployee(items), "no trainings")
	}),
}

var trainingDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a training record",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		id, _ := cmd.Flags().GetUint64("id")
		if err := svc.Records.DeleteTraining(cmd.Context(), id); err != nil {
			return errs.Wrapf(err, "delete training %d", id)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted training: id=%d\n", id)
		return err
	}),
}

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Manage occupational medical exams",
}

var examAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a medical exam",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		input := records.ExamInput{}
		input.EmployeeID, _ = cmd.Flags().GetUint64("employee-id")
		input.ExamType, _ = cmd.Flags().GetString("type")
		input.ExamDate, _ = cmd.Flags().GetString("date")
		input.Result, _ = cmd.Flags().GetString("result")
		input.ExpiresOn, _ = cmd.Flags().GetString("expires-on")

		created, err := svc.Records.AddExam(ctx, input)
		if err != nil {
			logging.Error(ctx, "add exam failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "add exam")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created exam: id=%d employee=%s type=%s\n", created.ID, created.EmployeeName, created.ExamType); err != nil {
			return errs.Wrap(err, "write exam output")
		}
		return nil
	}),
}

var examListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exams",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		format, err := checkFormat(mustString(cmd, "format"))
		if err != nil {
			return err
		}
		items, err := svc.Records.ListExams(ctx, employeeFilter(cmd))
		if err != nil {
			return errs.Wrap(err, "list exams")
		}
		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		return writeTable(cmd.OutOrStdout(), []string{"ID", "EMPLOYEE", "EXAM", "DATE", "RESULT", "EXPIRES", "STATUS", "DAYS"}, examRowsWithEmployee(items), "no exams")
	}),
}

var examDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an exam record",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		id, _ := cmd.Flags().GetUint64("id")
		if err := svc.Records.DeleteExam(cmd.Context(), id); err != nil {
			return errs.Wrapf(err, "delete exam %d", id)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted exam: id=%d\n", id)
		return err
	}),
}

var incidentCmd = &cobra.Command{
	Use:   "incident",
	Short: "Manage workplace incidents",
}

var incidentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Report an incident; omit --employee-id for a third party",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		input := records.IncidentInput{EmployeeID: employeeFilter(cmd)}
		input.OccurredOn, _ = cmd.Flags().GetString("date")
		input.Severity, _ = cmd.Flags().GetString("severity")
		input.IncidentType, _ = cmd.Flags().GetString("type")
		input.Location, _ = cmd.Flags().GetString("location")
		input.RootCause, _ = cmd.Flags().GetString("root-cause")
		input.BodyParts, _ = cmd.Flags().GetString("body-parts")
		input.LostWorkdays, _ = cmd.Flags().GetInt("lost-days")

		created, err := svc.Records.ReportIncident(ctx, input)
		if err != nil {
			logging.Error(ctx, "report incident failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "report incident")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created incident: id=%d employee=%s severity=%s\n", created.ID, created.EmployeeName, created.Severity); err != nil {
			return errs.Wrap(err, "write incident output")
		}
		return nil
	}),
}

var incidentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List incidents, newest first",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		format, err := checkFormat(mustString(cmd, "format"))
		if err != nil {
			return err
		}
		items, err := svc.Records.ListIncidents(ctx)
		if err != nil {
			return errs.Wrap(err, "list incidents")
		}
		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{
				idText(item.ID),
				item.OccurredOn,
				item.EmployeeName,
				string(item.Severity),
				item.IncidentType,
				item.Location,
				fmt.Sprintf("%d", item.LostWorkdays),
			})
		}
		return writeTable(cmd.OutOrStdout(), []string{"ID", "DATE", "EMPLOYEE", "SEVERITY", "TYPE", "LOCATION", "LOST DAYS"}, rows, "no incidents")
	}),
}

var incidentDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an incident",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		id, _ := cmd.Flags().GetUint64("id")
		if err := svc.Records.DeleteIncident(cmd.Context(), id); err != nil {
			return errs.Wrapf(err, "delete incident %d", id)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted incident: id=%d\n", id)
		return err
	}),
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the distinct employee roles",
	RunE: withApp(func(cmd *cobra.Command, svc *services) error {
		roles, err := svc.Records.ListRoles(cmd.Context())
		if err != nil {
			return errs.Wrap(err, "list roles")
		}
		if len(roles) == 0 {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "no roles")
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(roles, "\n"))
		return err
	}),
}

// employeeFilter returns nil unless --employee-id was given.
func employeeFilter(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("employee-id") {
		return nil
	}
	id, _ := cmd.Flags().GetUint64("employee-id")
	return &id
}

func trainingRows(items []records.TrainingView) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{idText(item.ID), item.TrainingName, item.PerformedOn, item.ExpiresOn, string(item.Status), daysText(item.DaysLeft)})
	}
	return rows
}

func trainingRowsWithEmployee(items []records.TrainingView) [][]string {
	rows := trainingRows(items)
	for i, item := range items {
		rows[i] = append([]string{rows[i][0], item.EmployeeName}, rows[i][1:]...)
	}
	return rows
}

func examRows(items []records.ExamView) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{idText(item.ID), string(item.ExamType), item.ExamDate, string(item.Result), item.ExpiresOn, string(item.Status), daysText(item.DaysLeft)})
	}
	return rows
}

func examRowsWithEmployee(items []records.ExamView) [][]string {
	rows := examRows(items)
	for i, item := range items {
		rows[i] = append([]string{rows[i][0], item.EmployeeName}, rows[i][1:]...)
	}
	return rows
}

func init() {
	rootCmd.AddCommand(trainingCmd, examCmd, incidentCmd, rolesCmd)

	trainingCmd.AddCommand(trainingAddCmd, trainingListCmd, trainingDeleteCmd)
	trainingAddCmd.Flags().Uint64("employee-id", 0, "Employee id")
	trainingAddCmd.Flags().String("name", "", "Training name")
	trainingAddCmd.Flags().String("performed-on", "", "Date the training was performed")
	trainingAddCmd.Flags().String("expires-on", "", "Date the training expires")
	_ = trainingAddCmd.MarkFlagRequired("employee-id")
	_ = trainingAddCmd.MarkFlagRequired("name")
	trainingListCmd.Flags().Uint64("employee-id", 0, "Only this employee's trainings")
	trainingListCmd.Flags().String("format", formatText, "Output format (text|json)")
	trainingDeleteCmd.Flags().Uint64("id", 0, "Training id")
	_ = trainingDeleteCmd.MarkFlagRequired("id")

	examCmd.AddCommand(examAddCmd, examListCmd, examDeleteCmd)
	examAddCmd.Flags().Uint64("employee-id", 0, "Employee id")
	examAddCmd.Flags().String("type", "", "Exam type (admission|periodic|termination|risk_change|return_to_work)")
	examAddCmd.Flags().String("date", "", "Exam date")
	examAddCmd.Flags().String("result", "", "Exam result (fit|unfit)")
	examAddCmd.Flags().String("expires-on", "", "Date the exam expires")
	_ = examAddCmd.MarkFlagRequired("employee-id")
	_ = examAddCmd.MarkFlagRequired("type")
	examListCmd.Flags().Uint64("employee-id", 0, "Only this employee's exams")
	examListCmd.Flags().String("format", formatText, "Output format (text|json)")
	examDeleteCmd.Flags().Uint64("id", 0, "Exam id")
	_ = examDeleteCmd.MarkFlagRequired("id")

	incidentCmd.AddCommand(incidentAddCmd, incidentListCmd, incidentDeleteCmd)
	incidentAddCmd.Flags().Uint64("employee-id", 0, "Involved employee id")
	incidentAddCmd.Flags().String("date", "", "Date of the incident")
	incidentAddCmd.Flags().String("severity", "", "Severity (near_miss|minor|moderate|severe|fatal)")
	incidentAddCmd.Flags().String("type", "", "Incident type")
	incidentAddCmd.Flags().String("location", "", "Where it happened")
	incidentAddCmd.Flags().String("root-cause", "", "Root cause")
	incidentAddCmd.Flags().String("body-parts", "", "Affected body parts")
	incidentAddCmd.Flags().Int("lost-days", 0, "Lost workdays")
	_ = incidentAddCmd.MarkFlagRequired("date")
	_ = incidentAddCmd.MarkFlagRequired("severity")
	_ = incidentAddCmd.MarkFlagRequired("type")
	incidentListCmd.Flags().String("format", formatText, "Output format (text|json)")
	incidentDeleteCmd.Flags().Uint64("id", 0, "Incident id")
	_ = incidentDeleteCmd.MarkFlagRequired("id")
}
