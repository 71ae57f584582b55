package dialect

import (
	"errors"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
)

// Invalid object name.
const errInvalidObjectName = 208

type MSSQLDialect struct{}

func (MSSQLDialect) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf(`"%s"`, strings.ReplaceAll(identifier, `"`, `""`))
}

func (MSSQLDialect) Placeholder(position int) string {
	return fmt.Sprintf("@p%d", position+1)
}

func (MSSQLDialect) IsTableDoesNotExistErr(err error) bool {
	var mssqlErr mssql.Error
	if errors.As(err, &mssqlErr) {
		return mssqlErr.Number == errInvalidObjectName
	}

	return false
}
