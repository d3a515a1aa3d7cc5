package mongo

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gamedb/gridview/pkg/config"
	"github.com/gamedb/gridview/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var (
	mongoClient     *mongo.Client
	mongoClientLock sync.Mutex

	ErrNoDocuments = mongo.ErrNoDocuments
)

type Document interface {
	BSON() bson.D
}

type (
	D bson.D
	E bson.E
	M bson.M
	A bson.A
)

type collection string

func (c collection) String() string {
	return string(c)
}

// Collection is for collections named in config, such as entity sources
func Collection(name string) collection {
	return collection(name)
}

const (
	CollectionSettings collection = "datatable_settings"
)

func getMongo() (client *mongo.Client, err error) {

	mongoClientLock.Lock()
	defer mongoClientLock.Unlock()

	if mongoClient != nil {
		return mongoClient, nil
	}

	ops := options.Client().
		ApplyURI(config.MongoDSN()).
		SetAppName("gridview")

	if config.C.MongoUsername != "" {
		ops.SetAuth(options.Credential{
			AuthSource:  config.C.MongoDatabase,
			Username:    config.C.MongoUsername,
			Password:    config.C.MongoPassword,
			PasswordSet: true,
		})
	}

	client, err = mongo.NewClient(ops)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Millisecond * 200

	operation := func() error {
		return client.Ping(ctx, readpref.Primary())
	}

	err = backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, 5), ctx), func(err error, t time.Duration) {
		log.Named(log.LogNameMongo).Info("waiting for mongo", zap.Error(err))
	})
	if err != nil {
		return nil, err
	}

	mongoClient = client

	return mongoClient, nil
}

func Close() {

	mongoClientLock.Lock()
	defer mongoClientLock.Unlock()

	if mongoClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := mongoClient.Disconnect(ctx)
	if err != nil {
		log.ErrS(err)
	}

	mongoClient = nil
}

// Returns ErrNoDocuments when nothing matches
func FindDocumentByKey(ctx context.Context, collection collection, col string, val interface{}, document interface{}) (err error) {

	client, err := getMongo()
	if err != nil {
		return err
	}

	c := client.Database(config.C.MongoDatabase).Collection(collection.String())
	result := c.FindOne(ctx, M{col: val}, options.FindOne())

	err = result.Err()
	if err != nil {
		return err
	}

	return result.Decode(document)
}

// FindDocumentsByKeys returns every document where col is one of vals, in no particular order
func FindDocumentsByKeys(ctx context.Context, collection collection, col string, vals []interface{}) (docs []bson.M, err error) {

	if len(vals) == 0 {
		return nil, nil
	}

	client, err := getMongo()
	if err != nil {
		return nil, err
	}

	c := client.Database(config.C.MongoDatabase).Collection(collection.String())

	cur, err := c.Find(ctx, M{col: M{"$in": vals}}, options.Find())
	if err != nil {
		return nil, err
	}

	err = cur.All(ctx, &docs)
	return docs, err
}

// Create or update whole document
func ReplaceDocument(ctx context.Context, collection collection, filter interface{}, document Document) (resp *mongo.UpdateResult, err error) {

	client, err := getMongo()
	if err != nil {
		return resp, err
	}

	c := client.Database(config.C.MongoDatabase).Collection(collection.String())
	return c.ReplaceOne(ctx, filter, document.BSON(), options.Replace().SetUpsert(true))
}
