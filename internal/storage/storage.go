package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang/glog"
)

var (
	sqliteSchema = []string{
		`CREATE TABLE IF NOT EXISTS keyring (
		id           INTEGER      NOT NULL PRIMARY KEY AUTOINCREMENT,
		public_key   VARCHAR(128) NOT NULL UNIQUE,
		secret_key   VARCHAR(64)  NOT NULL,
		created_date TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
		`CREATE TABLE IF NOT EXISTS randomness (
		id           INTEGER      NOT NULL PRIMARY KEY AUTOINCREMENT,
		network      BIGINT       NOT NULL,
		keyring_id   INTEGER      NOT NULL,
		epoch        INTEGER      NOT NULL,
		alpha        VARCHAR(64)  NOT NULL,
		gamma        VARCHAR(128) NOT NULL,
		c            VARCHAR(64)  NOT NULL,
		s            VARCHAR(64)  NOT NULL,
		y            VARCHAR(64)  NOT NULL,
		created_date TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (network, epoch),
		CONSTRAINT link_randomness_to_keyring FOREIGN KEY (keyring_id) REFERENCES keyring (id)
	);`,
	}

	mysqlSchema = []string{
		`CREATE TABLE IF NOT EXISTS keyring (
		id           INT          NOT NULL AUTO_INCREMENT,
		public_key   VARCHAR(128) NOT NULL,
		secret_key   VARCHAR(64)  NOT NULL,
		created_date TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY (public_key)
	);`,
		`CREATE TABLE IF NOT EXISTS randomness (
		id           INT          NOT NULL AUTO_INCREMENT,
		network      BIGINT       NOT NULL,
		keyring_id   INT          NOT NULL,
		epoch        INT          NOT NULL,
		alpha        VARCHAR(64)  NOT NULL,
		gamma        VARCHAR(128) NOT NULL,
		c            VARCHAR(64)  NOT NULL,
		s            VARCHAR(64)  NOT NULL,
		y            VARCHAR(64)  NOT NULL,
		created_date TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY (network, epoch),
		CONSTRAINT link_randomness_to_keyring FOREIGN KEY (keyring_id) REFERENCES keyring (id)
	);`,
	}
)

const (
	insertKeyExpr = `
	INSERT INTO keyring (public_key, secret_key, created_date) VALUES (?, ?, ?);`

	keyColumns        = `SELECT id, public_key, secret_key, created_date FROM keyring`
	readKeyByIDExpr   = keyColumns + ` WHERE id = ?;`
	readKeyByPubExpr  = keyColumns + ` WHERE public_key = ?;`
	readLatestKeyExpr = keyColumns + ` ORDER BY id DESC LIMIT 1;`

	insertEpochExpr = `
	INSERT INTO randomness (network, keyring_id, epoch, alpha, gamma, c, s, y, created_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	epochColumns        = `SELECT id, network, keyring_id, epoch, alpha, gamma, c, s, y, created_date FROM randomness`
	readEpochExpr       = epochColumns + ` WHERE network = ? AND epoch = ?;`
	readLatestEpochExpr = epochColumns + ` WHERE network = ? ORDER BY epoch DESC LIMIT 1;`
)

// Key is a row of the keyring. Keys are hex encoded: the public key is the
// 64-byte x || y form, the secret key is 32 bytes.
type Key struct {
	ID          int64
	PublicKey   string
	SecretKey   string
	CreatedDate time.Time
}

// Epoch is the randomness published for one network at one epoch. Alpha,
// Gamma, C, S and Y are the hex encoded proof fields.
type Epoch struct {
	ID          int64
	Network     int64
	KeyringID   int64
	Epoch       int64
	Alpha       string
	Gamma       string
	C           string
	S           string
	Y           string
	CreatedDate time.Time
}

// Store reads and writes keys and epochs.
type Store struct {
	db     *sql.DB
	driver string
}

// New returns a Store backed by db. driver selects the SQL dialect used by
// Migrate.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.driver == DriverMySQL {
		schema = mysqlSchema
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return Errorf(err, "failed to create tables")
		}
	}
	glog.V(2).Infof("storage: %s schema up to date", s.driver)
	return nil
}

// InsertKey adds a key to the keyring and returns its id.
func (s *Store) InsertKey(ctx context.Context, k *Key) (int64, error) {
	created := k.CreatedDate
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, insertKeyExpr, k.PublicKey, k.SecretKey, created)
	if err != nil {
		return 0, Errorf(err, "insert key %v", k.PublicKey)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, Errorf(err, "insert key %v", k.PublicKey)
	}
	glog.Infof("storage: added key %d (%v)", id, k.PublicKey)
	return id, nil
}

// KeyByID returns the keyring entry with the given id.
func (s *Store) KeyByID(ctx context.Context, id int64) (*Key, error) {
	k, err := scanKey(s.db.QueryRowContext(ctx, readKeyByIDExpr, id))
	return k, Errorf(err, "read key %d", id)
}

// KeyByPublicKey returns the keyring entry for a hex encoded public key.
func (s *Store) KeyByPublicKey(ctx context.Context, publicKey string) (*Key, error) {
	k, err := scanKey(s.db.QueryRowContext(ctx, readKeyByPubExpr, publicKey))
	return k, Errorf(err, "read key %v", publicKey)
}

// LatestKey returns the most recently added key.
func (s *Store) LatestKey(ctx context.Context) (*Key, error) {
	k, err := scanKey(s.db.QueryRowContext(ctx, readLatestKeyExpr))
	return k, Errorf(err, "read latest key")
}

func scanKey(row *sql.Row) (*Key, error) {
	var k Key
	if err := row.Scan(&k.ID, &k.PublicKey, &k.SecretKey, &k.CreatedDate); err != nil {
		return nil, err
	}
	return &k, nil
}

// InsertEpoch stores e. Each (network, epoch) pair can be written once.
func (s *Store) InsertEpoch(ctx context.Context, e *Epoch) (int64, error) {
	created := e.CreatedDate
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, insertEpochExpr,
		e.Network, e.KeyringID, e.Epoch, e.Alpha, e.Gamma, e.C, e.S, e.Y, created)
	if err != nil {
		return 0, Errorf(err, "insert epoch %d of network %d", e.Epoch, e.Network)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, Errorf(err, "insert epoch %d of network %d", e.Epoch, e.Network)
	}
	return id, nil
}

// Epoch returns the randomness of network at epoch.
func (s *Store) Epoch(ctx context.Context, network, epoch int64) (*Epoch, error) {
	e, err := scanEpoch(s.db.QueryRowContext(ctx, readEpochExpr, network, epoch))
	return e, Errorf(err, "read epoch %d of network %d", epoch, network)
}

// LatestEpoch returns the highest epoch stored for network.
func (s *Store) LatestEpoch(ctx context.Context, network int64) (*Epoch, error) {
	e, err := scanEpoch(s.db.QueryRowContext(ctx, readLatestEpochExpr, network))
	return e, Errorf(err, "read latest epoch of network %d", network)
}

func scanEpoch(row *sql.Row) (*Epoch, error) {
	var e Epoch
	if err := row.Scan(&e.ID, &e.Network, &e.KeyringID, &e.Epoch,
		&e.Alpha, &e.Gamma, &e.C, &e.S, &e.Y, &e.CreatedDate); err != nil {
		return nil, err
	}
	return &e, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %v", err)
	}
	return nil
}
