package errorx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const errSysPrefix = "SYS-ERR"

type errSysCode int

type errSys struct {
	code errSysCode
}

func (err errSys) Error() string {
	return fmt.Sprintf("%d", err.code)
}

func (err errSys) Code() string {
	return errSysPrefix + "-" + fmt.Sprintf("%d", err.code)
}

func (err errSys) CustomError() CustomError {
	return CustomError{
		Prefix: errSysPrefix,
		Code:   int(err.code),
	}
}

const (
	// --- SYS-ERR-xxx: System / Service exceptions ---
	internalServerError errSysCode = iota
	remoteServiceFail
	// When select in DB, encounter connection failure or other error
	databaseFailure
	// Replace sql.ErrNoRows
	databaseNoRows
	databaseDuplicateKey
)

var (
	// Used when marshal error, type convert error
	ErrInternalServerError = errSys{code: internalServerError}
	ErrRemoteServiceFail   = errSys{code: remoteServiceFail}
	// Used instead of sql.ErrConnDone and other unhandled errors
	ErrDatabaseFailure = errSys{code: databaseFailure}
	// Used instead of sql.ErrNoRows
	//
	// Convert it to a specific error in component or handler
	ErrDatabaseNoRows       = errSys{code: databaseNoRows}
	ErrDatabaseDuplicateKey = errSys{code: databaseDuplicateKey}
)

var errSysMap = map[errSysCode]errSys{
	internalServerError:  ErrInternalServerError,
	remoteServiceFail:    ErrRemoteServiceFail,
	databaseFailure:      ErrDatabaseFailure,
	databaseNoRows:       ErrDatabaseNoRows,
	databaseDuplicateKey: ErrDatabaseDuplicateKey,
}

// HandleDBError converts a database error to a custom error, keeping the
// original error in the chain.
func HandleDBError(err error, ctx map[string]interface{}) error {
	if err == nil {
		return nil
	}
	customErr := CustomError{
		Prefix:  errSysPrefix,
		Context: ctx,
	}
	if errors.Is(err, sql.ErrNoRows) {
		customErr.Code = int(databaseNoRows)
		return fmt.Errorf("%w, %w", err, customErr)
	} else if strings.Contains(err.Error(), "duplicate key value") {
		customErr.Code = int(databaseDuplicateKey)
		return fmt.Errorf("%w, %w", err, customErr)
	} else {
		customErr.Code = int(databaseFailure)
		return fmt.Errorf("%w, %w", err, customErr)
	}
}

func RemoteServiceFail(err error, ctx context) error {
	customErr := ErrRemoteServiceFail.CustomError()
	customErr.Context = ctx
	return fmt.Errorf("%w, %w", err, customErr)
}
