package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/beevik/etree"

	"github.com/tealwasm/tlfront/pipeline"
)

func checkSummaryFixture(t *testing.T) *pipeline.Summary {
	t.Helper()

	compiler := pipeline.NewCompiler(nil)
	summary, err := compiler.Compile(context.Background(), []pipeline.Unit{
		{Name: "geometry", Source: "global record Vec\n   x: number\nend\n"},
		{Name: "broken", Source: "local x: Missing\n"},
	})
	assert.NoError(t, err)

	return summary
}

func TestWriteJUnitReport(t *testing.T) {
	summary := checkSummaryFixture(t)
	files := map[string]string{"geometry": "geometry.tl", "broken": "broken.tl"}

	var buf bytes.Buffer

	err := writeJUnitReport(&buf, summary, files, nil)
	assert.NoError(t, err)

	doc := etree.NewDocument()
	err = doc.ReadFromBytes(buf.Bytes())
	assert.NoError(t, err)

	suites := doc.SelectElement("testsuites")
	assert.NotZero(t, suites)
	assert.Equal(t, "2", suites.SelectAttrValue("tests", ""))
	assert.Equal(t, "1", suites.SelectAttrValue("failures", ""))

	suite := suites.SelectElement("testsuite")
	assert.NotZero(t, suite)
	assert.Equal(t, "check", suite.SelectAttrValue("name", ""))

	cases := suite.SelectElements("testcase")
	assert.Equal(t, 2, len(cases))

	var failed *etree.Element

	for _, c := range cases {
		if c.SelectAttrValue("name", "") == "broken" {
			failed = c
		}
	}

	assert.NotZero(t, failed)
	assert.Equal(t, "broken.tl", failed.SelectAttrValue("classname", ""))

	failure := failed.SelectElement("failure")
	assert.NotZero(t, failure)
	assert.Equal(t, "ERROR", failure.SelectAttrValue("type", ""))
	assert.Contains(t, failure.SelectAttrValue("message", ""), "broken")
	assert.Contains(t, failure.Text(), "Missing")
}

func TestWriteJUnitReportPassingCase(t *testing.T) {
	summary := checkSummaryFixture(t)

	var buf bytes.Buffer

	err := writeJUnitReport(&buf, summary, nil, nil)
	assert.NoError(t, err)

	doc := etree.NewDocument()
	err = doc.ReadFromBytes(buf.Bytes())
	assert.NoError(t, err)

	for _, c := range doc.FindElements("//testcase") {
		if c.SelectAttrValue("name", "") != "geometry" {
			continue
		}

		assert.Zero(t, c.SelectElement("failure"))
		assert.Equal(t, "", c.SelectAttrValue("classname", ""))
	}
}

func TestWriteJUnitReportStrictWarnings(t *testing.T) {
	compiler := pipeline.NewCompiler(nil)
	summary, err := compiler.Compile(context.Background(), []pipeline.Unit{
		{Name: "warned", Source: "local interface A end\nlocal record B is A, A end\n"},
	})
	assert.NoError(t, err)
	assert.NoError(t, summary.Results[0].Err)

	var buf bytes.Buffer

	err = writeJUnitReport(&buf, summary, nil, map[string]bool{"warned": true})
	assert.NoError(t, err)

	doc := etree.NewDocument()
	err = doc.ReadFromBytes(buf.Bytes())
	assert.NoError(t, err)

	suites := doc.SelectElement("testsuites")
	assert.Equal(t, "1", suites.SelectAttrValue("failures", ""))

	failure := doc.FindElement("//testcase/failure")
	assert.NotZero(t, failure)
	assert.Equal(t, "WARNING", failure.SelectAttrValue("type", ""))
	assert.Contains(t, failure.Text(), "repeated")
}

func TestWriteJUnitReportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "nested", "check.xml")

	summary := checkSummaryFixture(t)

	err := writeJUnitReportFile(path, summary, nil, nil)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(data), "<testsuites")
}
