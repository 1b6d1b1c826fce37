package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/academia/internal/config"
	"github.com/mrlokans/academia/internal/database"
	"github.com/mrlokans/academia/internal/database/authors"
	"github.com/mrlokans/academia/internal/database/departments"
	"github.com/mrlokans/academia/internal/database/scopus"
	"github.com/mrlokans/academia/internal/domain"
	"github.com/mrlokans/academia/internal/services"
)

type seedAuthor struct {
	request  services.AuthorCreateRequest
	deptCode string
	accounts []services.ScopusAccountCreateRequest
}

var seedDepartments = []services.DepartmentCreateRequest{
	{Code: "CS", Name: "Computer Science", FacultyName: "Engineering"},
	{Code: "PHY", Name: "Physics", FacultyName: "Sciences"},
	{Code: "BIO", Name: "Biology", FacultyName: "Sciences"},
}

var seedAuthors = []seedAuthor{
	{
		request: services.AuthorCreateRequest{
			DNI: "1710034065", Title: "PhD", FirstName: "Maria", LastName: "Garcia",
			BirthDate: "1978-04-12", Gender: "F", Position: "Professor",
		},
		deptCode: "CS",
		accounts: []services.ScopusAccountCreateRequest{
			{Username: "mgarcia", Affiliation: "Faculty of Engineering"},
			{Username: "mgarcia-lab", Affiliation: "Distributed Systems Lab"},
		},
	},
	{
		request: services.AuthorCreateRequest{
			DNI: "0926687856", Title: "MSc", FirstName: "Jose", LastName: "Martinez",
			BirthDate: "1985-11-03", Gender: "M", Position: "Lecturer",
		},
		deptCode: "CS",
		accounts: []services.ScopusAccountCreateRequest{
			{Username: "jmartinez", Affiliation: "Faculty of Engineering"},
		},
	},
	{
		request: services.AuthorCreateRequest{
			DNI: "0102030400", Title: "PhD", FirstName: "Lucia", LastName: "Perez",
			BirthDate: "1969-07-21", Gender: "F", Position: "Dean",
		},
		deptCode: "PHY",
	},
	{
		request: services.AuthorCreateRequest{
			DNI: "2400000002", Title: "PhD", FirstName: "Pablo", LastName: "Ruiz",
			BirthDate: "1990-01-30", Gender: "M", Position: "Researcher",
		},
		deptCode: "BIO",
		accounts: []services.ScopusAccountCreateRequest{
			{Username: "pruiz", Affiliation: "Institute of Genomics"},
		},
	},
}

// SeedCommand fills a database with sample departments, authors and accounts.
// Records that already exist are left untouched.
type SeedCommand struct {
	DatabasePath string
	Out          io.Writer
}

// SeedResult counts what a seed run created and skipped.
type SeedResult struct {
	Created int
	Skipped int
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{Out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the sqlite database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Populate a database with sample academic records.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := Seed(context.Background(), db)
	if err != nil {
		return err
	}

	out := cmd.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Seeded %s: %d created, %d already present\n", cmd.DatabasePath, result.Created, result.Skipped)
	return nil
}

// Seed inserts the sample data set into db.
func Seed(ctx context.Context, db *database.Database) (SeedResult, error) {
	depRepo := departments.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	accountRepo := scopus.NewRepository(db.DB)

	deptService := services.NewDepartmentService(depRepo, nil)
	authorService := services.NewAuthorService(authorRepo, depRepo, accountRepo, nil)
	accountService := services.NewScopusAccountService(accountRepo, authorRepo, nil)

	var result SeedResult
	deptIDs := make(map[string]uint, len(seedDepartments))

	for _, req := range seedDepartments {
		dept, err := deptService.Create(ctx, req)
		switch {
		case errors.Is(err, domain.ErrConflict):
			existing, err := depRepo.GetByCode(ctx, req.Code)
			if err != nil {
				return result, fmt.Errorf("seed department %s: %w", req.Code, err)
			}
			deptIDs[req.Code] = existing.ID
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("seed department %s: %w", req.Code, err)
		default:
			deptIDs[req.Code] = dept.ID
			result.Created++
		}
	}

	for _, sa := range seedAuthors {
		req := sa.request
		req.DepartmentID = deptIDs[sa.deptCode]

		var authorID uint
		author, err := authorService.Create(ctx, req)
		switch {
		case errors.Is(err, domain.ErrConflict):
			existing, err := authorRepo.GetByDNI(ctx, req.DNI)
			if err != nil {
				return result, fmt.Errorf("seed author %s: %w", req.DNI, err)
			}
			authorID = existing.ID
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("seed author %s: %w", req.DNI, err)
		default:
			authorID = author.ID
			result.Created++
		}

		for _, acc := range sa.accounts {
			acc.AuthorID = authorID
			_, err := accountService.Create(ctx, acc)
			switch {
			case errors.Is(err, domain.ErrConflict):
				result.Skipped++
			case err != nil:
				return result, fmt.Errorf("seed scopus account %s: %w", acc.Username, err)
			default:
				result.Created++
			}
		}
	}

	return result, nil
}
