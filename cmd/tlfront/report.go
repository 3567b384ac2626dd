package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/tealwasm/tlfront/pipeline"
)

// writeJUnitReport renders a check summary as a JUnit XML document
// with one testcase per unit, so CI systems can track unit failures.
// strictFailed names units that resolved but fail under strict policy;
// their warnings are reported as failures so the report matches the
// exit code.
func writeJUnitReport(w io.Writer, summary *pipeline.Summary, files map[string]string, strictFailed map[string]bool) error {
	failures := 0

	for _, r := range summary.Results {
		if r.Err != nil || strictFailed[r.Unit] {
			failures++
		}
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suites.CreateAttr("name", "tlfront")
	suites.CreateAttr("tests", strconv.Itoa(summary.Total))
	suites.CreateAttr("failures", strconv.Itoa(failures))
	suites.CreateAttr("time", junitSeconds(summary.TotalDuration))

	suite := suites.CreateElement("testsuite")
	suite.CreateAttr("name", "check")
	suite.CreateAttr("tests", strconv.Itoa(summary.Total))
	suite.CreateAttr("failures", strconv.Itoa(failures))
	suite.CreateAttr("time", junitSeconds(summary.TotalDuration))

	for _, r := range summary.Results {
		testcase := suite.CreateElement("testcase")
		testcase.CreateAttr("name", r.Unit)

		if file, ok := files[r.Unit]; ok {
			testcase.CreateAttr("classname", file)
		}

		testcase.CreateAttr("time", junitSeconds(r.Duration))

		if r.Err == nil && !strictFailed[r.Unit] {
			continue
		}

		failure := testcase.CreateElement("failure")

		if r.Err != nil {
			failure.CreateAttr("message", r.Err.Error())
			failure.CreateAttr("type", "ERROR")
		} else {
			failure.CreateAttr("message", "warnings treated as errors")
			failure.CreateAttr("type", "WARNING")
		}

		if len(r.Diagnostics) > 0 {
			lines := make([]string, 0, len(r.Diagnostics))
			for _, d := range r.Diagnostics {
				lines = append(lines, d.Error())
			}

			failure.SetText(strings.Join(lines, "\n"))
		}
	}

	doc.Indent(2)

	_, err := doc.WriteTo(w)

	return err
}

// writeJUnitReportFile writes the report to path, creating parent
// directories as needed.
func writeJUnitReportFile(path string, summary *pipeline.Summary, files map[string]string, strictFailed map[string]bool) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	return writeJUnitReport(file, summary, files, strictFailed)
}

func junitSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
