package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amirasaad/backoffice/internal/fixtures/catalog"
	"github.com/amirasaad/backoffice/pkg/app"
	"github.com/amirasaad/backoffice/pkg/domain"
	"github.com/amirasaad/backoffice/pkg/domain/product"
	"github.com/amirasaad/backoffice/pkg/domain/user"
	"github.com/amirasaad/backoffice/pkg/dto"
	"github.com/amirasaad/backoffice/pkg/repository"
	userrepo "github.com/amirasaad/backoffice/pkg/repository/user"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	success = color.New(color.FgGreen)
	skipped = color.New(color.FgYellow)
)

type catalogCreator interface {
	Create(ctx context.Context, d product.Details) (*dto.CatalogRead, error)
}

func catalogsOf(a *app.App) map[product.Kind]catalogCreator {
	return map[product.Kind]catalogCreator{
		product.KindProduct:     a.Products,
		product.KindAccountType: a.AccountTypes,
		product.KindCardType:    a.CardTypes,
	}
}

// seedCatalog creates every entry, skipping names that already exist.
// It returns the number of entries created.
func seedCatalog(ctx context.Context, catalogs map[product.Kind]catalogCreator, entries []catalog.Entry, out io.Writer) (int, error) {
	created := 0
	for _, e := range entries {
		svc, ok := catalogs[e.Kind]
		if !ok {
			return created, fmt.Errorf("no catalog for kind %q", e.Kind)
		}
		read, err := svc.Create(ctx, e.Details)
		if errors.Is(err, domain.ErrAlreadyExists) {
			skipped.Fprintf(out, "skip   %-12s %s (exists)\n", e.Kind, e.Details.Name) //nolint:errcheck
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s %s: %w", e.Kind, e.Details.Name, err)
		}
		success.Fprintf(out, "create %-12s %s\n", e.Kind, read.Name) //nolint:errcheck
		created++
	}
	fmt.Fprintf(out, "%d of %d catalog entries created\n", created, len(entries)) //nolint:errcheck
	return created, nil
}

// createAdmin stores a user with the admin role.
func createAdmin(ctx context.Context, uow repository.UnitOfWork, username, email, password string, out io.Writer) error {
	u, err := user.New(username, email, password, user.RoleAdmin)
	if err != nil {
		return err
	}
	err = uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := repository.Get[userrepo.Repository](uow)
		if err != nil {
			return err
		}
		if taken, err := users.ExistsByUsername(ctx, u.Username, u.ID); err != nil {
			return err
		} else if taken {
			return user.ErrUsernameTaken
		}
		if taken, err := users.ExistsByEmail(ctx, u.Email, u.ID); err != nil {
			return err
		} else if taken {
			return user.ErrEmailTaken
		}
		return users.Create(ctx, u)
	})
	if err != nil {
		return err
	}
	success.Fprintf(out, "admin %s created (%s)\n", u.Username, u.PublicID) //nolint:errcheck
	return nil
}

// readPassword prompts on a terminal without echo, or reads one line
// from piped input.
func readPassword(in *os.File, out io.Writer) (string, error) {
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(out, "Password: ") //nolint:errcheck
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out) //nolint:errcheck
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}
