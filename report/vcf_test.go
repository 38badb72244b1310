package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dasnellings/hapTools/haplotype"
	"github.com/dasnellings/hapTools/targets"
	"github.com/dasnellings/hapTools/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sitesAt(positions ...int) *targets.Set {
	req := targets.NewSet()
	for _, pos := range positions {
		req.AddSite(variant.Site{Chrom: "1", Pos: pos})
	}
	return req
}

func TestRecordLine(t *testing.T) {
	rec := variant.Record{
		Chrom:   "1",
		Pos:     100,
		Id:      "rs1",
		Ref:     "C",
		Alt:     []string{"T"},
		Qual:    "37.5",
		Filter:  "PASS",
		Info:    "DP=30",
		Format:  []string{"DP", "GT", "AD"},
		Samples: []string{"10:0|1:5,5", "3:./."},
	}
	assert.Equal(t, "1\t100\trs1\tC\tT\t37.5\tPASS\tDP=30\tGT:DP:AD\t0|1:10:5,5\t./.:3:.", RecordLine(rec))

	rec.Qual = "."
	rec.Format = nil
	rec.Samples = nil
	assert.Equal(t, "1\t100\trs1\tC\tT\t.\tPASS\tDP=30", RecordLine(rec))
}

func TestWriteVcfKeepsGenotypes(t *testing.T) {
	input := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\tS3\tS4\tS5\tS6\n" +
		"1\t50\t.\tA\tG\t.\tPASS\t.\tGT\t0/0\t0/0\t0/0\t0/0\t0/0\t0/0\n" +
		"1\t100\t.\tC\tT\t.\tPASS\t.\tDP:GT\t7:0/1\t8:A/T\t9:0|1/1\t3:1|.\t4:./.\t5:0/0/1\n"
	req := sitesAt(100)
	res, err := haplotype.Run(strings.NewReader(input), req, haplotype.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteVcf(&buf, res))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "##fileformat=VCFv4.2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "#CHROM\tPOS"))
	assert.Equal(t, "1\t100\t.\tC\tT\t.\tPASS\t.\tGT:DP\t0/1:7\tA/T:8\t0|1/1:9\t1|.:3\t./.:4\t0/0/1:5", lines[2])
	assert.NotContains(t, buf.String(), "-1")
}

func TestWriteVcfFileOrder(t *testing.T) {
	req := sitesAt(200, 100, 300)
	res, err := haplotype.Run(strings.NewReader(fixture), req, haplotype.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteVcf(&buf, res))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[3], "1\t100\t"))
	assert.True(t, strings.HasPrefix(lines[4], "1\t200\t"))
}
