//go:build !unix

package shell

import "os/exec"

func configureProcessGroup(*exec.Cmd) {}

func reapGroup(*exec.Cmd) {}
