// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/notification"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
	"github.com/finance-tracker/ledger/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// testContext holds the state of one scenario.
type testContext struct {
	server   *httptest.Server
	client   *http.Client
	injector *dependency.Injector
	db       *mock.Db
	redis    *mock.Redis
	timeMock *mock.Time
	cfg      *config.Config

	headers  map[string]string
	response *response

	accessToken   string
	refreshToken  string
	currentUserID uuid.UUID
	passwords     map[string]string

	categoryIDs       map[string]uuid.UUID
	transactionIDs    map[string]uuid.UUID
	currentCategoryID uuid.UUID
	lastTransactionID uuid.UUID
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before(sc)
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.after()
		return ctx, nil
	})

	// Background steps
	ctx.Step(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Step(`^today is "([^"]*)"$`, test.todayIs)

	// User setup steps
	ctx.Step(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithEmailAndPassword)
	ctx.Step(`^a user named "([^"]*)" exists with email "([^"]*)" and password "([^"]*)"$`, test.aUserNamedExists)
	ctx.Step(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)

	// Category and transaction setup steps
	ctx.Step(`^a category exists with name "([^"]*)" and type "([^"]*)"$`, test.aCategoryExistsWithNameAndType)
	ctx.Step(`^a category exists with name "([^"]*)", type "([^"]*)" and icon "([^"]*)"$`, test.aCategoryExistsWithNameTypeAndIcon)
	ctx.Step(`^the following transactions exist:$`, test.theFollowingTransactionsExist)
	ctx.Step(`^the transaction "([^"]*)" has the stored amount "([^"]*)"$`, test.theTransactionHasTheStoredAmount)

	// Header steps
	ctx.Step(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Step(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, test.theResponseFieldShouldHaveItems)

	// Database assertion steps
	ctx.Step(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) before(sc *godog.Scenario) error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = uuid.Nil
	t.passwords = make(map[string]string)
	t.categoryIDs = make(map[string]uuid.UUID)
	t.transactionIDs = make(map[string]uuid.UUID)
	t.currentCategoryID = uuid.Nil
	t.lastTransactionID = uuid.Nil
	t.timeMock = mock.NewTime()

	t.cfg = config.Defaults()
	t.cfg.Server.Environment = "test"
	t.cfg.JWT.Secret = testJWTSecret
	t.cfg.JWT.BcryptCost = bcrypt.MinCost

	schema := "scenario_" + strings.ReplaceAll(sc.Id, "-", "_")
	db, err := mock.NewDb(schema, map[string]any{
		"users":          &model.UserModel{},
		"refresh_tokens": &model.RefreshTokenModel{},
		"categories":     &model.CategoryModel{},
		"transactions":   &model.TransactionModel{},
	})
	if err != nil {
		return err
	}
	t.db = db

	redis, err := mock.NewRedis()
	if err != nil {
		return err
	}
	t.redis = redis

	return nil
}

func (t *testContext) after() {
	if t.server != nil {
		t.server.Close()
		t.server = nil
	}
	if t.redis != nil {
		t.redis.Close()
		t.redis = nil
	}
	if t.db != nil {
		_ = t.db.Close()
		t.db = nil
	}
}

func (t *testContext) startServer() {
	if t.server != nil {
		return
	}

	feed := notification.NewRedisFeed(t.redis.Client, t.cfg.Notifications.MaxPending, t.cfg.Notifications.TTL)
	t.injector = dependency.NewInjector(t.cfg, t.db.DbConn, dependency.Options{
		Feed: feed,
		RedisHealth: func() bool {
			return t.redis.Client.Ping(context.Background()).Err() == nil
		},
		Clock: t.timeMock,
	})

	t.server = httptest.NewServer(t.injector.Router.Setup(t.cfg.Server.Environment))
	t.client = &http.Client{Timeout: 10 * time.Second}
}

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()

	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) todayIs(day string) error {
	d, err := time.Parse("2006-01-02", day)
	if err != nil {
		return err
	}
	t.timeMock.SetCurrentTime(d.Add(12 * time.Hour))
	return nil
}
