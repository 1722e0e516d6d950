package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/catalyst/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [job]",
		Short: "Run a single job and print its output",
		Long: "Run a single worker job (tailor, evaluate, cover-letter, interview, bulk-score,\n" +
			"or any job defined in catalyst.yaml) and print its output to stdout.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}

			resume, err := textFlag(cmd, "resume", "resume-file")
			if err != nil {
				return err
			}
			jd, err := textFlag(cmd, "jd", "jd-file")
			if err != nil {
				return err
			}
			dir, _ := cmd.Flags().GetString("dir")

			return c.app.RunJob(cmd.Context(), args[0], app.RunOptions{
				Resume:         resume,
				JobDescription: jd,
				Directory:      dir,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("resume", "", "Resume text")
	cmd.Flags().String("resume-file", "", "Read the resume from a file (- for stdin)")
	cmd.Flags().String("jd", "", "Job description text")
	cmd.Flags().String("jd-file", "", "Read the job description from a file (- for stdin)")
	cmd.Flags().String("dir", "", "Directory of resumes for bulk jobs")
	cmd.MarkFlagsMutuallyExclusive("resume", "resume-file")
	cmd.MarkFlagsMutuallyExclusive("jd", "jd-file")
	return cmd
}

// textFlag returns the inline flag value, or the contents of the file flag.
func textFlag(cmd *cobra.Command, inline, file string) (string, error) {
	path, _ := cmd.Flags().GetString(file)
	if path == "" {
		v, _ := cmd.Flags().GetString(inline)
		return v, nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read --"+file), "path", path)
	}
	return string(data), nil
}
