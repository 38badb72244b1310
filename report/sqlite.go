package report

import (
	"database/sql"
	"math"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/dasnellings/hapTools/haplotype"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`DROP TABLE IF EXISTS site`,
	`DROP TABLE IF EXISTS haplotype_group`,
	`DROP TABLE IF EXISTS group_member`,
	`CREATE TABLE site (idx INTEGER PRIMARY KEY, chromosome TEXT NOT NULL, position INTEGER NOT NULL, found INTEGER NOT NULL)`,
	`CREATE TABLE haplotype_group (rank INTEGER PRIMARY KEY, code TEXT NOT NULL, count INTEGER NOT NULL, frequency REAL NOT NULL, uncalled INTEGER NOT NULL, mean_dp REAL)`,
	`CREATE TABLE group_member (rank INTEGER NOT NULL REFERENCES haplotype_group(rank), sample TEXT NOT NULL)`,
}

// SiteRecord is a row of the site table. Idx is the position of the site
// within each haplotype code.
type SiteRecord struct {
	Idx        int    `db:"idx"`
	Chromosome string `db:"chromosome"`
	Position   int    `db:"position"`
	Found      bool   `db:"found"`
}

// GroupRecord is a row of the haplotype_group table.
type GroupRecord struct {
	Rank      int             `db:"rank"`
	Code      string          `db:"code"`
	Count     int             `db:"count"`
	Frequency float64         `db:"frequency"`
	Uncalled  bool            `db:"uncalled"`
	MeanDP    sql.NullFloat64 `db:"mean_dp"`
}

// MemberRecord is a row of the group_member table.
type MemberRecord struct {
	Rank   int    `db:"rank"`
	Sample string `db:"sample"`
}

// OpenDB connects to the SQLite database at path, creating it if needed.
func OpenDB(path string) (*sqlx.DB, error) {
	// URI filenames have to begin with 'file:'
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return db, nil
}

// WriteSQLite stores the sites and groups of res in the database at path,
// replacing any tables from an earlier run.
func WriteSQLite(path string, res *haplotype.Result) error {
	db, err := OpenDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err = db.Exec(stmt); err != nil {
			return pfx.Err(err)
		}
	}

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	if err = insertResult(tx, res); err != nil {
		tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

func insertResult(tx *sqlx.Tx, res *haplotype.Result) error {
	var err error
	for i, site := range res.Sites {
		s := SiteRecord{Idx: i, Chromosome: site.Chrom, Position: site.Pos, Found: res.Calls[i] != nil}
		if _, err = tx.NamedExec(`INSERT INTO site (idx, chromosome, position, found) VALUES (:idx, :chromosome, :position, :found)`, &s); err != nil {
			return pfx.Err(err)
		}
	}

	for _, r := range Rows(res) {
		g := GroupRecord{
			Rank:      r.Rank,
			Code:      r.Code,
			Count:     r.Count,
			Frequency: r.Frequency,
			Uncalled:  r.Uncalled,
			MeanDP:    sql.NullFloat64{Float64: r.MeanDP, Valid: !math.IsNaN(r.MeanDP)},
		}
		if _, err = tx.NamedExec(`INSERT INTO haplotype_group (rank, code, count, frequency, uncalled, mean_dp) VALUES (:rank, :code, :count, :frequency, :uncalled, :mean_dp)`, &g); err != nil {
			return pfx.Err(err)
		}
		for _, sample := range r.Samples {
			m := MemberRecord{Rank: r.Rank, Sample: sample}
			if _, err = tx.NamedExec(`INSERT INTO group_member (rank, sample) VALUES (:rank, :sample)`, &m); err != nil {
				return pfx.Err(err)
			}
		}
	}
	return nil
}
