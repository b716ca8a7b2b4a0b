// Package mongostore persists the user and recipe aggregates as MongoDB documents.
package mongostore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "cozinhai/internal/errors"
	"cozinhai/internal/repository"
)

const (
	usersCollection   = "users"
	recipesCollection = "recipes"
)

// Store is a MongoDB-backed repository.Store.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	users   *userRepository
	recipes *recipeRepository
	atomic  bool
	log     *logrus.Entry
}

var _ repository.Store = (*Store)(nil)

// New builds a store over database and probes whether the deployment
// supports multi-document transactions.
func New(ctx context.Context, client *mongo.Client, database string, logger *logrus.Logger) (*Store, error) {
	db := client.Database(database)
	s := &Store{
		client:  client,
		db:      db,
		users:   &userRepository{coll: db.Collection(usersCollection)},
		recipes: &recipeRepository{coll: db.Collection(recipesCollection)},
		log:     logger.WithField("store", "mongo"),
	}

	atomic, err := supportsTransactions(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("probe mongo topology: %w", err)
	}
	s.atomic = atomic
	if !atomic {
		s.log.Warn("mongo deployment is standalone: review writes are not transactional")
	}
	return s, nil
}

// EnsureIndexes creates the unique email index and the collections.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	// Collections cannot be created implicitly inside a transaction on older servers.
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: recipesCollection}})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	if len(names) == 0 {
		if err := s.db.CreateCollection(ctx, recipesCollection); err != nil {
			return fmt.Errorf("create recipes collection: %w", err)
		}
	}
	return nil
}

// Users returns the user repository.
func (s *Store) Users() repository.UserRepository { return s.users }

// Recipes returns the recipe repository.
func (s *Store) Recipes() repository.RecipeRepository { return s.recipes }

// Atomic reports whether the deployment runs transactions.
func (s *Store) Atomic() bool { return s.atomic }

// WithTransaction runs fn inside a session transaction when supported,
// otherwise runs it directly. fn runs once: transient transaction errors are
// returned to the caller instead of being retried.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.atomic {
		return fn(ctx)
	}
	session, err := s.client.StartSession()
	if err != nil {
		return apperrors.Storage("start session", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	return mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		return runTransaction(sc, fn, s.log)
	})
}

// txSession is the part of mongo.SessionContext a transaction needs.
type txSession interface {
	context.Context
	StartTransaction(opts ...*options.TransactionOptions) error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
}

func runTransaction(sc txSession, fn func(ctx context.Context) error, log *logrus.Entry) error {
	if err := sc.StartTransaction(); err != nil {
		return apperrors.Storage("start transaction", err)
	}
	if err := fn(sc); err != nil {
		if abortErr := sc.AbortTransaction(context.WithoutCancel(sc)); abortErr != nil {
			log.WithError(abortErr).Warn("abort transaction")
		}
		return err
	}
	if err := sc.CommitTransaction(sc); err != nil {
		return apperrors.Storage("commit", err)
	}
	return nil
}

// Ping checks the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// supportsTransactions is true for replica sets and sharded clusters.
func supportsTransactions(ctx context.Context, db *mongo.Database) (bool, error) {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, err
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid", nil
}
