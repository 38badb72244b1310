package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/report"
	"github.com/dasnellings/hapTools/targets"
	"github.com/dasnellings/hapTools/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCommand(t *testing.T) {
	for _, name := range []string{"hap", "sample", "table", "extract"} {
		c := findCommand(name)
		require.NotNil(t, c, name)
		assert.Equal(t, name, c.name)
	}
	assert.Nil(t, findCommand(""))
	assert.Nil(t, findCommand("haplotype"))
}

func parseTargets(t *testing.T, args ...string) *targetFlags {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	tf := addTargetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return tf
}

func TestTargetFlags(t *testing.T) {
	tf := parseTargets(t, "-t", "1:200,1:100", "-t", "2:5", "-c", "1", "-p", "150", "-s", "10", "-e", "20")
	req, err := tf.build(true)
	require.NoError(t, err)

	assert.Equal(t, []variant.Site{{Chrom: "1", Pos: 200}, {Chrom: "1", Pos: 100}, {Chrom: "2", Pos: 5}}, req.Sites())
	assert.Equal(t, []targets.Region{{Chrom: "1", Start: 140, End: 170}}, req.Regions())
}

func TestTargetFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"none", nil},
		{"chrom without pos", []string{"-c", "1"}},
		{"pos without chrom", []string{"-p", "10"}},
		{"negative window", []string{"-c", "1", "-p", "10", "-s", "-1"}},
		{"bad site", []string{"-t", "1:x"}},
		{"all with sites", []string{"-all", "-t", "1:100"}},
		{"missing sites file", []string{"-T", "does/not/exist.txt"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTargets(t, tc.args...).build(true)
			assert.Error(t, err)
		})
	}
}

func TestTargetFlagsOptional(t *testing.T) {
	req, err := parseTargets(t).build(false)
	require.NoError(t, err)
	assert.Nil(t, req)

	req, err = parseTargets(t, "-all").build(true)
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestInputNames(t *testing.T) {
	assert.Equal(t, "cohort", inputName("data/cohort.vcf.gz"))
	assert.Equal(t, "cohort", inputName("cohort.vcf"))
	assert.Equal(t, "stdin", inputName("-"))
	assert.Equal(t, filepath.Join("out", "groups.cohort.arrow"), perInput(filepath.Join("out", "groups.arrow"), "x/cohort.vcf.zst"))

	s := hapSettings{output: "outdir", db: "groups.sqlite"}.forInput("x/a.vcf")
	assert.Equal(t, filepath.Join("outdir", "a.hap.tsv"), s.output)
	assert.Equal(t, "groups.a.sqlite", s.db)
	assert.Equal(t, "", s.arrow)
}

const batchVcf = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\n" +
	"1\t100\t.\tC\tT\t.\tPASS\t.\tGT\t0/1\t0/0\n"

func TestHapBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.vcf")
	bad := filepath.Join(dir, "bad.vcf")
	require.NoError(t, os.WriteFile(good, []byte(batchVcf), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(batchVcf+"1\t200\t.\tC\n"), 0644))

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))

	req := targets.NewSet()
	req.AddSite(variant.Site{Chrom: "1", Pos: 100})
	settings := hapSettings{output: outDir, opts: haplotype.Options{}}

	// a directory where the report of blocked.vcf belongs
	blocked := filepath.Join(dir, "blocked.vcf")
	require.NoError(t, os.WriteFile(blocked, []byte(batchVcf), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "blocked.hap.tsv"), 0755))

	failed := hapBatch([]string{good, bad, blocked}, req, settings, newLogger(0))
	assert.Equal(t, 2, failed)

	f, err := os.Open(filepath.Join(outDir, "good.hap.tsv"))
	require.NoError(t, err)
	defer f.Close()
	parsed, err := report.ReadGroups(f)
	require.NoError(t, err)
	require.Len(t, parsed.Groups, 2)
	assert.Equal(t, haplotype.Code{"C/C"}, parsed.Groups[0].Code)
	assert.Equal(t, []string{"S1"}, parsed.Groups[1].Samples)
}

func TestHapBatchSharedNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0755))
	first := filepath.Join(dir, "a", "cohort.vcf")
	second := filepath.Join(dir, "b", "cohort.vcf.gz")
	other := filepath.Join(dir, "a", "other.vcf")
	for _, path := range []string{first, second, other} {
		require.NoError(t, os.WriteFile(path, []byte(batchVcf), 0644))
	}

	inputs := []string{first, second, other}
	err := checkInputNames(inputs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cohort")
	assert.NoError(t, checkInputNames([]string{first, other}))

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	req := targets.NewSet()
	req.AddSite(variant.Site{Chrom: "1", Pos: 100})

	failed := hapBatch(inputs, req, hapSettings{output: outDir}, newLogger(0))
	assert.Equal(t, 2, failed)
	assert.NoFileExists(t, filepath.Join(outDir, "cohort.hap.tsv"))
	assert.FileExists(t, filepath.Join(outDir, "other.hap.tsv"))
}

func TestHaplotypeFileMissing(t *testing.T) {
	_, err := haplotypeFile(filepath.Join(t.TempDir(), "absent.vcf"), nil, haplotype.Options{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "absent.vcf"))
}
