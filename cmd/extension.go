package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// RunExtension attempts to find and execute an external cfs-<subcommand>
// binary, passing the global flags as environment variables.
// It returns (true, exitCode) if an extension was found and executed, and
// (false, 0) if none was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "cfs-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		if *Verbose {
			log.Printf("external command %q not found in PATH: %v", name, err)
		}
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvAPIURL+"="+*apiURL,
		EnvAPIKey+"="+*apiKey,
		EnvMinInterval+"="+minInterval.String(),
		EnvMaxRetries+"="+strconv.Itoa(*maxRetries),
		EnvTimeout+"="+timeout.String(),
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
