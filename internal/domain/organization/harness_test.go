package organization

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"onghub/internal/core/files"
	"onghub/internal/core/types"
	"onghub/pkg/logger"
)

var testNow = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	store    *memStore
	storage  *fakeStorage
	registry *fakeRegistry
	mailer   *fakeMailer
	users    *fakeUsers
	events   *recordingPublisher
	archive  *fakeArchiver
	svc      *Service
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		store:    newMemStore(),
		storage:  newFakeStorage(),
		registry: newFakeRegistry(),
		mailer:   &fakeMailer{},
		users:    &fakeUsers{emails: map[int][]string{}},
		events:   &recordingPublisher{},
		archive:  &fakeArchiver{},
	}
	if cfg.ReportingYearOffset == 0 {
		cfg.ReportingYearOffset = 1
	}
	h.svc = NewService(Dependencies{
		Store:        h.store,
		TxManager:    h.store.txManager(),
		Nomenclature: &fakeNomenclature{},
		Storage:      h.storage,
		Registry:     h.registry,
		Mailer:       h.mailer,
		Users:        h.users,
		Events:       h.events,
		Archiver:     h.archive,
	}, cfg)
	h.setNow(testNow)
	return h
}

func (h *harness) setNow(t time.Time) {
	h.svc.now = func() time.Time { return t }
}

// create registers an organization with the given tax id and fails the test on error.
func (h *harness) create(t *testing.T, cui string) *Organization {
	t.Helper()
	org, err := h.svc.Create(context.Background(), validInput(cui), pngLogo(), nil)
	require.NoError(t, err)
	return org
}

func money(v int64) types.Money { return decimal.NewFromInt(v) }

func ptr[T any](v T) *T { return &v }

func pngLogo() *files.File {
	return &files.File{Name: "logo.png", ContentType: "image/png", Size: 3, Reader: strings.NewReader("png")}
}

func validInput(cui string) CreateInput {
	return CreateInput{
		General: GeneralInput{
			Name:        "Asociatia " + cui,
			Alias:       "alias-" + cui,
			Type:        TypeAssociation,
			Email:       strings.ToLower(cui) + "@ong.ro",
			Phone:       "+40722123456",
			YearCreated: 2010,
			CUI:         cui,
			RafNumber:   ptr("RAF-" + cui),
			Contact:     ContactInput{FullName: "Ana Pop", Email: "ana@ong.ro", Phone: "+40722000000"},
		},
		Activity: ActivityInput{
			Area:    AreaLocal,
			Domains: []int{1, 2},
			Cities:  []int{7},
		},
		Legal: LegalInput{
			LegalReprezentative: ContactInput{FullName: "Ion Ionescu", Email: "ion@ong.ro", Phone: "+40722000001"},
			Directors: []ContactInput{
				{FullName: "D1", Email: "d1@ong.ro"},
				{FullName: "D2", Email: "d2@ong.ro"},
				{FullName: "D3", Email: "d3@ong.ro"},
			},
		},
	}
}

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	return logger.WithLogger(context.Background(), l), logs
}

func findFinancial(t *testing.T, rows []Financial, typ FinancialType, year int) Financial {
	t.Helper()
	for _, f := range rows {
		if f.Type == typ && f.Year == year {
			return f
		}
	}
	t.Fatalf("no %s row for %d", typ, year)
	return Financial{}
}
