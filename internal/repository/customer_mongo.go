package repository

import (
	"context"
	"errors"

	"github.com/umalmyha/customers-crud/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoCustomersCollection = "customers"
	mongoCountersCollection  = "counters"
	mongoCustomersSequence   = "customers"
)

type mongoCounter struct {
	Seq int64 `bson:"seq"`
}

type mongoCustomerRepository struct {
	customers *mongo.Collection
	counters  *mongo.Collection
}

// NewMongoCustomerRepository builds CustomerRepository on top of mongo database
func NewMongoCustomerRepository(db *mongo.Database) CustomerRepository {
	return &mongoCustomerRepository{
		customers: db.Collection(mongoCustomersCollection),
		counters:  db.Collection(mongoCountersCollection),
	}
}

// CreateMongoCustomerIndexes makes mongo enforce email uniqueness
func CreateMongoCustomerIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(mongoCustomersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("customers_email_key"),
	})
	return err
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	cursor, err := r.customers.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]*model.Customer, 0)
	for cursor.Next(ctx) {
		var c model.Customer
		if err := cursor.Decode(&c); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	if err := r.customers.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *mongoCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *mongoCustomerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id})
}

func (r *mongoCustomerRepository) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	saved := *c

	var err error
	if saved.IsNew() {
		if saved.ID, err = r.nextID(ctx); err != nil {
			return nil, err
		}
		_, err = r.customers.InsertOne(ctx, &saved)
	} else {
		_, err = r.customers.ReplaceOne(ctx, bson.M{"_id": saved.ID}, &saved, options.Replace().SetUpsert(true))
	}

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &saved, nil
}

func (r *mongoCustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.customers.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	if err := r.customers.FindOne(ctx, filter, opts).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// nextID hands out monotonically increasing ids which are never reused
func (r *mongoCustomerRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter mongoCounter
	err := r.counters.FindOneAndUpdate(ctx, bson.M{"_id": mongoCustomersSequence}, bson.M{"$inc": bson.M{"seq": int64(1)}}, opts).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}
