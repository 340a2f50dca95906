package sqlite

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"
)

// InMemory is the reserved path token for a private, transient database
// that is never backed by a file.
const InMemory = ":memory:"

const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// Conn wraps exactly one native database handle and owns it exclusively.
// All statement execution is funneled through a single internal lock, so a
// Conn may be shared between goroutines; operations are served in the order
// they arrive at the lock, and a long-running statement blocks everything
// behind it.
type Conn struct {
	mu  sync.Mutex
	tls *libc.TLS
	db  uintptr
}

// Open opens the database at path in read-write mode, creating the file if
// it is missing. Pass InMemory for a private transient database.
func Open(path string) (*Conn, error) {
	c := &Conn{tls: libc.NewTLS()}
	db, err := c.openV2(path, sqlite3.SQLITE_OPEN_READWRITE|sqlite3.SQLITE_OPEN_CREATE)
	if err != nil {
		c.tls.Close()
		return nil, err
	}
	c.db = db
	return c, nil
}

func (c *Conn) openV2(path string, flags int32) (uintptr, error) {
	p, err := c.malloc(ptrSize)
	if err != nil {
		return 0, err
	}
	defer c.free(p)
	name, err := c.cString(path)
	if err != nil {
		return 0, err
	}
	defer c.free(name)

	rc := sqlite3.Xsqlite3_open_v2(c.tls, name, p, flags, 0)
	db := *(*uintptr)(unsafe.Pointer(p))
	if rc != sqlite3.SQLITE_OK {
		// The engine hands back a handle even on failure; it still has to
		// be released.
		if db != 0 {
			sqlite3.Xsqlite3_close_v2(c.tls, db)
		}
		return 0, &Error{Kind: KindConnection, Code: int(rc), Message: c.errstr(rc)}
	}
	return db, nil
}

// Close releases the native handle. The Conn must not be used afterwards.
// Close is idempotent.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == 0 {
		return nil
	}
	rc := sqlite3.Xsqlite3_close_v2(c.tls, c.db)
	c.db = 0
	var err error
	if rc != sqlite3.SQLITE_OK {
		err = &Error{Kind: KindConnection, Code: int(rc), Message: c.errstr(rc)}
	}
	c.tls.Close()
	c.tls = nil
	return err
}

// Execute runs one SQL statement with args bound to ?-style positional
// placeholders in order, 1-based. It returns every row the statement
// produces; statements producing no rows return an empty, non-nil slice.
//
// Binding more arguments than the statement has placeholders is not checked
// locally; the engine's own range error is surfaced instead.
func (c *Conn) Execute(query string, args ...Value) ([]Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exec(query, args)
}

// LastInsertRowID reports the rowid generated by the most recent successful
// INSERT on this connection, read through the same serialization point as
// Execute.
func (c *Conn) LastInsertRowID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastInsertRowID()
}

// exec drives the prepare, bind, step, finalize lifecycle for one
// statement. The caller must hold c.mu.
func (c *Conn) exec(query string, args []Value) ([]Row, error) {
	if c.db == 0 {
		return nil, &Error{Kind: KindConnection, Message: "connection is closed"}
	}

	stmt, err := c.prepare(query)
	if err != nil {
		return nil, err
	}
	// SQL consisting only of whitespace or comments compiles to no
	// statement at all.
	if stmt == 0 {
		return []Row{}, nil
	}

	var allocs []uintptr
	defer func() {
		sqlite3.Xsqlite3_finalize(c.tls, stmt)
		for _, p := range allocs {
			c.free(p)
		}
	}()

	for i, arg := range args {
		p, err := c.bind(stmt, i+1, arg)
		if err != nil {
			return nil, err
		}
		if p != 0 {
			allocs = append(allocs, p)
		}
	}

	count := int(sqlite3.Xsqlite3_column_count(c.tls, stmt))
	var columns []string
	var index map[string]int
	if count > 0 {
		columns = make([]string, count)
		index = make(map[string]int, count)
		for i := 0; i < count; i++ {
			name := libc.GoString(sqlite3.Xsqlite3_column_name(c.tls, stmt, int32(i)))
			columns[i] = name
			index[strings.ToLower(name)] = i
		}
	}

	rows := []Row{}
	for {
		switch rc := sqlite3.Xsqlite3_step(c.tls, stmt); rc {
		case sqlite3.SQLITE_ROW:
			row, err := c.readRow(stmt, count, columns, index)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		case sqlite3.SQLITE_DONE:
			return rows, nil
		default:
			return nil, &Error{Kind: KindStep, Code: int(rc), Message: c.errmsg()}
		}
	}
}

func (c *Conn) lastInsertRowID() int64 {
	if c.db == 0 {
		return 0
	}
	return int64(sqlite3.Xsqlite3_last_insert_rowid(c.tls, c.db))
}

func (c *Conn) prepare(query string) (uintptr, error) {
	zSQL, err := c.cString(query)
	if err != nil {
		return 0, err
	}
	defer c.free(zSQL)
	pp, err := c.malloc(ptrSize)
	if err != nil {
		return 0, err
	}
	defer c.free(pp)

	if rc := sqlite3.Xsqlite3_prepare_v2(c.tls, c.db, zSQL, -1, pp, 0); rc != sqlite3.SQLITE_OK {
		return 0, &Error{Kind: KindStatement, Code: int(rc), Message: c.errmsg()}
	}
	return *(*uintptr)(unsafe.Pointer(pp)), nil
}

// bind attaches arg at the 1-based placeholder position idx. Text and blob
// payloads are copied into C memory that must outlive the statement; the
// returned pointer, if non-zero, is freed by the caller after finalize.
func (c *Conn) bind(stmt uintptr, idx int, arg Value) (uintptr, error) {
	var rc int32
	var p uintptr
	switch v := arg.(type) {
	case nil:
		rc = sqlite3.Xsqlite3_bind_null(c.tls, stmt, int32(idx))
	case Null:
		rc = sqlite3.Xsqlite3_bind_null(c.tls, stmt, int32(idx))
	case Integer:
		rc = sqlite3.Xsqlite3_bind_int64(c.tls, stmt, int32(idx), int64(v))
	case Real:
		rc = sqlite3.Xsqlite3_bind_double(c.tls, stmt, int32(idx), float64(v))
	case Text:
		var err error
		p, err = c.cString(string(v))
		if err != nil {
			return 0, err
		}
		rc = sqlite3.Xsqlite3_bind_text(c.tls, stmt, int32(idx), p, int32(len(v)), 0)
	case Blob:
		if len(v) == 0 {
			rc = sqlite3.Xsqlite3_bind_zeroblob(c.tls, stmt, int32(idx), 0)
			break
		}
		var err error
		p, err = c.cBytes(v)
		if err != nil {
			return 0, err
		}
		rc = sqlite3.Xsqlite3_bind_blob(c.tls, stmt, int32(idx), p, int32(len(v)), 0)
	default:
		return 0, &Error{Kind: KindStatement, Message: fmt.Sprintf("unsupported bind value %T at position %d", arg, idx)}
	}
	if rc != sqlite3.SQLITE_OK {
		c.free(p)
		return 0, &Error{Kind: KindStatement, Code: int(rc), Message: c.errmsg()}
	}
	return p, nil
}

// readRow materializes the current result row, mapping each column's
// storage class onto the matching Value variant.
func (c *Conn) readRow(stmt uintptr, count int, columns []string, index map[string]int) (Row, error) {
	values := make([]Value, count)
	for i := 0; i < count; i++ {
		switch ct := sqlite3.Xsqlite3_column_type(c.tls, stmt, int32(i)); ct {
		case sqlite3.SQLITE_NULL:
			values[i] = Null{}
		case sqlite3.SQLITE_INTEGER:
			values[i] = Integer(sqlite3.Xsqlite3_column_int64(c.tls, stmt, int32(i)))
		case sqlite3.SQLITE_FLOAT:
			values[i] = Real(sqlite3.Xsqlite3_column_double(c.tls, stmt, int32(i)))
		case sqlite3.SQLITE_TEXT:
			values[i] = Text(libc.GoString(sqlite3.Xsqlite3_column_text(c.tls, stmt, int32(i))))
		case sqlite3.SQLITE_BLOB:
			p := sqlite3.Xsqlite3_column_blob(c.tls, stmt, int32(i))
			n := int(sqlite3.Xsqlite3_column_bytes(c.tls, stmt, int32(i)))
			// A zero-length blob reports a null pointer.
			b := make([]byte, n)
			if p != 0 && n > 0 {
				copy(b, (*libc.RawMem)(unsafe.Pointer(p))[:n:n])
			}
			values[i] = Blob(b)
		default:
			return Row{}, &Error{
				Kind:    KindColumnType,
				Code:    int(ct),
				Message: fmt.Sprintf("column %d has unknown storage class %d, engine contract violation", i, ct),
			}
		}
	}
	return Row{values: values, columns: columns, index: index}, nil
}

func (c *Conn) errmsg() string {
	return libc.GoString(sqlite3.Xsqlite3_errmsg(c.tls, c.db))
}

func (c *Conn) errstr(rc int32) string {
	return libc.GoString(sqlite3.Xsqlite3_errstr(c.tls, rc))
}

func (c *Conn) malloc(n int) (uintptr, error) {
	if p := libc.Xmalloc(c.tls, types.Size_t(n)); p != 0 {
		return p, nil
	}
	return 0, &Error{Kind: KindConnection, Code: sqlite3.SQLITE_NOMEM, Message: fmt.Sprintf("cannot allocate %d bytes", n)}
}

func (c *Conn) free(p uintptr) {
	if p != 0 {
		libc.Xfree(c.tls, p)
	}
}

// cString copies s into NUL-terminated C memory.
func (c *Conn) cString(s string) (uintptr, error) {
	p, err := c.malloc(len(s) + 1)
	if err != nil {
		return 0, err
	}
	if len(s) != 0 {
		copy((*libc.RawMem)(unsafe.Pointer(p))[:len(s):len(s)], s)
	}
	*(*byte)(unsafe.Pointer(p + uintptr(len(s)))) = 0
	return p, nil
}

// cBytes copies b into C memory. b must not be empty.
func (c *Conn) cBytes(b []byte) (uintptr, error) {
	p, err := c.malloc(len(b))
	if err != nil {
		return 0, err
	}
	copy((*libc.RawMem)(unsafe.Pointer(p))[:len(b):len(b)], b)
	return p, nil
}
