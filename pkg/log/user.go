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

package log

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/cardimport/pkg/importer"
)

// 📢 UserLogger prints the banners around a run: the summary, validation
// failures and lock messages
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) printer(p pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return p.WithPrefix(pterm.Prefix{Text: prefix, Style: p.Prefix.Style}).WithWriter(u.out)
}

// 📊 LogSummary prints the outcome of an import run
func (u *UserLogger) LogSummary(sum *importer.Summary) {
	for _, res := range sum.Results() {
		line := res.Label + ": " + res.Status.String()
		if res.Total > 0 {
			line += ", " + humanize.Comma(int64(res.MovedCount)) + "/" + humanize.Comma(int64(res.Total)) + " files"
		}
		if res.BytesCopied > 0 {
			line += ", " + humanize.IBytes(uint64(res.BytesCopied)) + " copied"
		}
		if res.Status.IsAlarming() {
			u.printer(pterm.Warning, "📦").Println(line)
		} else {
			u.printer(pterm.Info, "📦").Println(line)
		}
	}

	for _, msg := range sum.Errors {
		u.printer(pterm.Error, "❌").Println(msg)
	}

	if len(sum.Errors) > 0 {
		u.printer(pterm.Warning, "⚠️").Println(sum.Message)
		u.log.Warn().Int("moved", sum.TotalMoved).Int("errors", len(sum.Errors)).Msg(sum.Message)
		return
	}
	u.printer(pterm.Success, "✅").Println(sum.Message)
	u.log.Info().Int("moved", sum.TotalMoved).Msg(sum.Message)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		u.printer(pterm.Error, "❌").Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Warning, "⚠️").Println(description)
	u.log.Warn().Msg(description)
}

// 🔒 LogLockOperation logs run lock problems
func (u *UserLogger) LogLockOperation(path string, err error) {
	u.printer(pterm.Error, "🔓").Printfln("could not lock %s", path)
	u.printer(pterm.Error, "🔓").Println(err)
	u.log.Error().Err(err).Str("lock", path).Msg("acquiring import lock")
}
