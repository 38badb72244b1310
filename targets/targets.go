// Package targets describes which sites of a VCF are haplotyped: explicit
// sites, kept in the order they were requested, and regions whose records
// are all included.
package targets

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/dasnellings/hapTools/variant"
	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/fileio"
)

// Region is a 1-based, closed interval on one chromosome.
type Region struct {
	Chrom string
	Start int
	End   int
}

func (r Region) Contains(chrom string, pos int) bool {
	return chrom == r.Chrom && pos >= r.Start && pos <= r.End
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// Window returns the region spanning upstream bases before pos and
// downstream bases after it, clipped at position 1.
func Window(chrom string, pos, upstream, downstream int) Region {
	start := pos - upstream
	if start < 1 {
		start = 1
	}
	return Region{Chrom: chrom, Start: start, End: pos + downstream}
}

// Set is the collection of requested sites and regions. The zero value is
// an empty set ready for use.
type Set struct {
	sites   []variant.Site
	index   map[variant.Site]bool
	regions []Region
}

func NewSet() *Set {
	return &Set{index: make(map[variant.Site]bool)}
}

// AddSite requests a site. Repeated requests for the same site are ignored
// so each site keeps its first position in the request order.
func (s *Set) AddSite(site variant.Site) {
	if s.index == nil {
		s.index = make(map[variant.Site]bool)
	}
	if s.index[site] {
		return
	}
	s.index[site] = true
	s.sites = append(s.sites, site)
}

func (s *Set) AddRegion(r Region) {
	s.regions = append(s.regions, r)
}

// Sites returns the explicitly requested sites in request order.
func (s *Set) Sites() []variant.Site {
	return s.sites
}

func (s *Set) Regions() []Region {
	return s.regions
}

func (s *Set) Empty() bool {
	return len(s.sites) == 0 && len(s.regions) == 0
}

// IsExplicit reports whether site was requested directly rather than only
// through a region.
func (s *Set) IsExplicit(site variant.Site) bool {
	return s.index[site]
}

// Contains implements variant.Selector.
func (s *Set) Contains(chrom string, pos int) bool {
	if s.index[variant.Site{Chrom: chrom, Pos: pos}] {
		return true
	}
	for i := range s.regions {
		if s.regions[i].Contains(chrom, pos) {
			return true
		}
	}
	return false
}

// Resolve returns the final ordered site list: explicit sites in request
// order, then the sites in found that were not requested explicitly, in the
// order given (normally the order they appeared in the VCF).
func (s *Set) Resolve(found []variant.Site) []variant.Site {
	ans := make([]variant.Site, 0, len(s.sites)+len(found))
	ans = append(ans, s.sites...)
	for _, site := range found {
		if !s.index[site] {
			ans = append(ans, site)
		}
	}
	return ans
}

// ParseSite parses "chrom:pos". The chromosome name may itself contain
// colons; the last one separates the position.
func ParseSite(s string) (variant.Site, error) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndexByte(s, ':')
	if idx <= 0 || idx == len(s)-1 {
		return variant.Site{}, fmt.Errorf("malformed site %q, expected chrom:pos", s)
	}
	pos, err := strconv.Atoi(s[idx+1:])
	if err != nil || pos < 1 {
		return variant.Site{}, fmt.Errorf("malformed position in site %q", s)
	}
	return variant.Site{Chrom: s[:idx], Pos: pos}, nil
}

// ParseSites parses a comma separated list of sites.
func ParseSites(s string) ([]variant.Site, error) {
	var ans []variant.Site
	for _, word := range strings.Split(s, ",") {
		if strings.TrimSpace(word) == "" {
			continue
		}
		site, err := ParseSite(word)
		if err != nil {
			return nil, err
		}
		ans = append(ans, site)
	}
	return ans, nil
}

// ReadSites reads a sites file: one site per line, either "chrom:pos" or
// "chrom<TAB>pos". Lines beginning with '#' are skipped.
func ReadSites(filename string) ([]variant.Site, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, pfx.Err(err)
	}

	file := fileio.EasyOpen(filename)
	defer file.Close()

	var ans []variant.Site
	var site variant.Site
	var line string
	var words []string
	var done bool
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = strings.Fields(line)
		if len(words) >= 2 {
			site.Chrom = words[0]
			site.Pos, err = strconv.Atoi(words[1])
			if err != nil || site.Pos < 1 {
				return nil, fmt.Errorf("%s: malformed position in line %q", filename, line)
			}
		} else {
			site, err = ParseSite(words[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
		}
		ans = append(ans, site)
	}
	return ans, nil
}

// ReadBed reads regions from a BED file, converting the 0-based half-open
// coordinates to 1-based closed regions.
func ReadBed(filename string) ([]Region, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, pfx.Err(err)
	}

	records := bed.Read(filename)
	ans := make([]Region, 0, len(records))
	for i := range records {
		if records[i].ChromEnd <= records[i].ChromStart {
			continue
		}
		ans = append(ans, Region{
			Chrom: records[i].Chrom,
			Start: records[i].ChromStart + 1,
			End:   records[i].ChromEnd,
		})
	}
	return ans, nil
}
