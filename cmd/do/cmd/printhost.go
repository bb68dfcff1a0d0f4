package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var (
	unitPattern  = regexp.MustCompile(`^[A-Za-z0-9@_.-]+$`)
	jobIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+-\d+$`)
)

// PrintHostCmd manages the machine running the print backend and CUPS over SSH.
func PrintHostCmd() *cobra.Command {
	target := sshTarget{}
	var service string

	cmd := &cobra.Command{
		Use:   "printhost",
		Short: "Inspect and manage the print backend host",
	}
	cmd.PersistentFlags().StringVar(&target.host, "host", os.Getenv("PRINT_HOST"), "SSH host (user@host) or set PRINT_HOST env")
	cmd.PersistentFlags().StringVar(&target.port, "port", "22", "SSH port")
	cmd.PersistentFlags().StringVar(&target.keyPath, "key", "", "Path to SSH private key (default: ~/.ssh/id_ed25519)")
	cmd.PersistentFlags().StringVar(&service, "service", "printmate-print", "systemd unit of the print backend")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the print backend service and printer states",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printHostStatus(cmd.OutOrStdout(), target, service)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "jobs [printer]",
		Short: "List queued print jobs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := ""
			if len(args) == 1 {
				printer = args[0]
			}
			return listJobs(cmd.OutOrStdout(), target, printer)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a queued print job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cancelJob(cmd.InOrStdin(), cmd.OutOrStdout(), target, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restart",
		Short: "Restart the print backend service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return restartService(cmd.InOrStdin(), cmd.OutOrStdout(), target, service)
		},
	})

	return cmd
}

type unitState struct {
	Description string
	ActiveState string
	SubState    string
}

type printerState struct {
	Name   string
	State  string // idle, printing or disabled
	Detail string
}

type printJob struct {
	ID    string
	User  string
	Bytes string
	When  string
}

func printHostStatus(w io.Writer, target sshTarget, service string) error {
	if !unitPattern.MatchString(service) {
		return fmt.Errorf("invalid service name %q", service)
	}

	client, err := sshConnect(target)
	if err != nil {
		return fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	out, err := runSSHCommand(client, "systemctl show "+service+" --property=Description,ActiveState,SubState --no-pager")
	if err != nil {
		return fmt.Errorf("systemctl show: %w", err)
	}
	unit := parseUnitState(out)
	fmt.Fprintf(w, "%s: %s (%s)  %s\n\n", service, unit.ActiveState, unit.SubState, unit.Description)

	out, err = runSSHCommand(client, "lpstat -p")
	if err != nil {
		return fmt.Errorf("lpstat: %w", err)
	}

	fmt.Fprintf(w, "%-30s %-10s %s\n", "PRINTER", "STATE", "DETAIL")
	for _, p := range parsePrinters(out) {
		fmt.Fprintf(w, "%-30s %-10s %s\n", p.Name, p.State, p.Detail)
	}
	return nil
}

func listJobs(w io.Writer, target sshTarget, printer string) error {
	cmd := "lpstat -o"
	if printer != "" {
		if !unitPattern.MatchString(printer) {
			return fmt.Errorf("invalid printer name %q", printer)
		}
		cmd += " " + printer
	}

	client, err := sshConnect(target)
	if err != nil {
		return fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	out, err := runSSHCommand(client, cmd)
	if err != nil {
		return fmt.Errorf("lpstat: %w", err)
	}

	jobs := parseJobs(out)
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No queued jobs.")
		return nil
	}

	fmt.Fprintf(w, "%-30s %-12s %-10s %s\n", "JOB", "USER", "BYTES", "SUBMITTED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%-30s %-12s %-10s %s\n", j.ID, j.User, j.Bytes, j.When)
	}
	return nil
}

func cancelJob(in io.Reader, w io.Writer, target sshTarget, jobID string) error {
	if !jobIDPattern.MatchString(jobID) {
		return fmt.Errorf("invalid job id %q (expected e.g. Office_Printer-42)", jobID)
	}

	if !confirm(in, w, fmt.Sprintf("This will CANCEL print job %s", jobID)) {
		return nil
	}

	client, err := sshConnect(target)
	if err != nil {
		return fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	if out, err := runSSHCommand(client, "cancel "+jobID); err != nil {
		return fmt.Errorf("cancel %s: %w: %s", jobID, err, strings.TrimSpace(out))
	}

	fmt.Fprintf(w, "Job %s cancelled.\n", jobID)
	return nil
}

func restartService(in io.Reader, w io.Writer, target sshTarget, service string) error {
	if !unitPattern.MatchString(service) {
		return fmt.Errorf("invalid service name %q", service)
	}

	if !confirm(in, w, fmt.Sprintf("This will RESTART %s; jobs being submitted will fail", service)) {
		return nil
	}

	client, err := sshConnect(target)
	if err != nil {
		return fmt.Errorf("ssh connect: %w", err)
	}
	defer client.Close()

	fmt.Fprintf(w, "Restarting %s...\n", service)
	if out, err := runSSHCommand(client, "systemctl restart "+service); err != nil {
		return fmt.Errorf("restart: %w: %s", err, strings.TrimSpace(out))
	}

	out, err := runSSHCommand(client, "systemctl show "+service+" --property=Description,ActiveState,SubState --no-pager")
	if err != nil {
		return fmt.Errorf("systemctl show: %w", err)
	}
	unit := parseUnitState(out)
	fmt.Fprintf(w, "%s is %s (%s).\n", service, unit.ActiveState, unit.SubState)
	return nil
}

func confirm(in io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintln(w, prompt)
	fmt.Fprint(w, "Type 'yes' to confirm: ")

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		fmt.Fprintln(w, "Aborted.")
		return false
	}
	if strings.TrimSpace(response) != "yes" {
		fmt.Fprintln(w, "Aborted.")
		return false
	}
	return true
}

// parseUnitState reads `systemctl show --property=...` key=value output.
func parseUnitState(out string) unitState {
	var s unitState
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "Description":
			s.Description = value
		case "ActiveState":
			s.ActiveState = value
		case "SubState":
			s.SubState = value
		}
	}
	return s
}

// parsePrinters reads `lpstat -p` lines such as
// "printer Office is idle.  enabled since ..." or "printer Office now printing Office-7.  enabled since ...".
func parsePrinters(out string) []printerState {
	var printers []printerState
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "printer" {
			continue
		}

		p := printerState{Name: fields[1]}
		rest := strings.Join(fields[2:], " ")
		switch {
		case strings.HasPrefix(rest, "is idle"):
			p.State = "idle"
		case strings.HasPrefix(rest, "now printing"):
			p.State = "printing"
			if len(fields) > 4 {
				p.Detail = strings.TrimSuffix(fields[4], ".")
			}
		case strings.HasPrefix(rest, "disabled"):
			p.State = "disabled"
			p.Detail = strings.TrimSpace(strings.TrimPrefix(rest, "disabled"))
		default:
			p.State = "unknown"
			p.Detail = rest
		}
		printers = append(printers, p)
	}
	return printers
}

// parseJobs reads `lpstat -o` lines: job id, user, size in bytes, then the submit time.
func parseJobs(out string) []printJob {
	var jobs []printJob
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || !jobIDPattern.MatchString(fields[0]) {
			continue
		}
		jobs = append(jobs, printJob{
			ID:    fields[0],
			User:  fields[1],
			Bytes: fields[2],
			When:  strings.Join(fields[3:], " "),
		})
	}
	return jobs
}
