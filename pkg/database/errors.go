package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectionError 网络、鉴权、取连接超时等基础设施故障，调用方可重试
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return "database connection error (" + e.Op + "): " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError SQL 语法错误、约束冲突等语句级错误
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return "database query error (" + e.Op + "): " + e.Err.Error()
}

func (e *QueryError) Unwrap() error { return e.Err }

// Classify 将驱动/gorm 返回的错误归类为 ConnectionError 或 QueryError。
// 已归类的错误原样返回。
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConnectionError
	var qe *QueryError
	if errors.As(err, &ce) || errors.As(err, &qe) {
		return err
	}
	if IsConnectionErr(err) {
		return &ConnectionError{Op: op, Err: err}
	}
	return &QueryError{Op: op, Err: err}
}

// IsConnectionErr 判断是否是可重试的连接类错误
func IsConnectionErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgConnErr *pgconn.ConnectError
	if errors.As(err, &pgConnErr) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// 1040 too many connections, 1045 access denied
		return myErr.Number == 1040 || myErr.Number == 1045
	}
	return false
}
