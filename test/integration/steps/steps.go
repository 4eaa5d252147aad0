package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/application/usecase/auth"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

var namedPlaceholder = regexp.MustCompile(`\{\{(category|transaction):([^}]+)\}\}`)

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	return t.createUser(email, password, "Test User")
}

func (t *testContext) aUserNamedExists(name, email, password string) error {
	return t.createUser(email, password, name)
}

func (t *testContext) createUser(email, password, name string) error {
	userID := uuid.New()
	t.currentUserID = userID
	t.passwords[email] = password

	now := time.Now().UTC()
	user := &model.UserModel{
		ID:              userID,
		Email:           email,
		Name:            name,
		PasswordHash:    hashPassword(password),
		TermsAcceptedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return t.db.DbConn.Create(user).Error
}

func hashPassword(password string) string {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("failed to hash password: %v", err))
	}
	return string(hashedBytes)
}

// iAmLoggedInAs logs the user in through the login use case so the tokens
// carry exactly what the server issues.
func (t *testContext) iAmLoggedInAs(email string) error {
	t.startServer()

	password, ok := t.passwords[email]
	if !ok {
		return fmt.Errorf("user %q was not created in this scenario", email)
	}

	out, err := t.injector.UseCases.Login.Execute(context.Background(), auth.LoginUserInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	t.currentUserID = out.Identity.UserID
	t.accessToken = out.AccessToken
	t.refreshToken = out.RefreshToken
	return nil
}

func (t *testContext) aCategoryExistsWithNameAndType(name, categoryType string) error {
	return t.aCategoryExistsWithNameTypeAndIcon(name, categoryType, "tag")
}

func (t *testContext) aCategoryExistsWithNameTypeAndIcon(name, categoryType, icon string) error {
	categoryID := uuid.New()
	t.currentCategoryID = categoryID
	t.categoryIDs[name] = categoryID

	now := time.Now().UTC()
	categoryModel := &model.CategoryModel{
		ID:        categoryID,
		Name:      name,
		Color:     "#6366F1",
		Icon:      icon,
		OwnerID:   t.currentUserID,
		Type:      categoryType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return t.db.DbConn.Create(categoryModel).Error
}

// theFollowingTransactionsExist inserts rows for the current user. The table
// header must name date, description, amount, type and category columns.
func (t *testContext) theFollowingTransactionsExist(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("transaction table needs a header and at least one row")
	}

	columns := make(map[string]int)
	for i, cell := range table.Rows[0].Cells {
		columns[cell.Value] = i
	}
	for _, name := range []string{"date", "description", "amount", "type", "category"} {
		if _, ok := columns[name]; !ok {
			return fmt.Errorf("transaction table is missing column %q", name)
		}
	}

	created := time.Now().UTC()
	for i, row := range table.Rows[1:] {
		value := func(name string) string { return row.Cells[columns[name]].Value }

		date, err := time.Parse("2006-01-02", value("date"))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		amount, err := decimal.NewFromString(value("amount"))
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		categoryID, ok := t.categoryIDs[value("category")]
		if !ok {
			return fmt.Errorf("row %d: unknown category %q", i+1, value("category"))
		}

		id := uuid.New()
		txn := &model.TransactionModel{
			ID:          id,
			UserID:      t.currentUserID,
			Date:        date,
			Description: value("description"),
			Amount:      amount,
			Type:        value("type"),
			CategoryID:  categoryID,
			// Later rows are newer so same-day ordering is deterministic.
			CreatedAt: created.Add(time.Duration(i) * time.Second),
			UpdatedAt: created.Add(time.Duration(i) * time.Second),
		}
		if err := t.db.DbConn.Create(txn).Error; err != nil {
			return err
		}
		t.transactionIDs[txn.Description] = id
		t.lastTransactionID = id
	}
	return nil
}

// theTransactionHasTheStoredAmount overwrites the amount column with raw text,
// bypassing the model's decimal type.
func (t *testContext) theTransactionHasTheStoredAmount(description, raw string) error {
	id, ok := t.transactionIDs[description]
	if !ok {
		return fmt.Errorf("unknown transaction %q", description)
	}
	return t.db.DbConn.Exec("UPDATE transactions SET amount = ? WHERE id = ?", raw, id).Error
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear access token to simulate unauthenticated request
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{category_id}}", t.currentCategoryID.String())
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())

	return namedPlaceholder.ReplaceAllStringFunc(content, func(match string) string {
		parts := namedPlaceholder.FindStringSubmatch(match)
		ids := t.categoryIDs
		if parts[1] == "transaction" {
			ids = t.transactionIDs
		}
		if id, ok := ids[parts[2]]; ok {
			return id.String()
		}
		return match
	})
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	t.startServer()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture the ID of a created category.
	if method == http.MethodPost && strings.HasSuffix(path, "/categories") {
		if idStr, ok := responseBody["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				t.currentCategoryID = id
				if name, ok := responseBody["name"].(string); ok {
					t.categoryIDs[name] = id
				}
			}
		}
	}

	// Login responses replace the session tokens.
	if token, ok := responseBody["access_token"].(string); ok && token != "" {
		t.accessToken = token
	}
	if token, ok := responseBody["refresh_token"].(string); ok && token != "" {
		t.refreshToken = token
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != t.replacePlaceholders(expectedValue) {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, quantity int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not an array: %v", field, body)
	}
	if len(items) != quantity {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, quantity, len(items))
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
	entitySlicePtr := reflect.New(entitySlice.Type())
	entitySlicePtr.Elem().Set(entitySlice)

	// Soft-deleted rows are excluded unless the criteria ask about them.
	query := t.db.DbConn
	for key, value := range criteria {
		if key == "deleted" {
			query = query.Unscoped().Where("deleted_at IS NOT NULL")
			continue
		}
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
