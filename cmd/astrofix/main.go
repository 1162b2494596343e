// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/walteh/astrofix/pkg/operation"
	"github.com/walteh/astrofix/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(os.Stderr, err))
}

// exitCode prints err and maps it to a process exit status
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	// the summary line already explains these
	if errors.Is(err, operation.ErrFilesFailed) || errors.Is(err, operation.ErrChangesNeeded) {
		return 1
	}
	fmt.Fprintln(w, status.NewDefaultFileFormatter().FormatError(err))
	return 1
}
