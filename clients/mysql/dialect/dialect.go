package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html#error_er_no_such_table
const errNoSuchTable = 1146

type MySQLDialect struct{}

func (MySQLDialect) QuoteIdentifier(identifier string) string {
	return fmt.Sprintf("`%s`", strings.ReplaceAll(identifier, "`", "``"))
}

func (MySQLDialect) Placeholder(_ int) string {
	return "?"
}

func (MySQLDialect) IsTableDoesNotExistErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errNoSuchTable
	}

	return false
}
