package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"account_backend/internal/feature/user/domain"
	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
	"account_backend/internal/platform/credential"
)

// UsersCollection はユーザードキュメントを保持する MongoDB コレクションです。
const UsersCollection = "users"

var withoutPassword = bson.D{{Key: "password", Value: 0}}

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password,omitempty"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
type userMongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo は db の users コレクションを使うリポジトリを返します。
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(UsersCollection), now: time.Now}
}

// EnsureIndexes は email の一意インデックスを作成します。何度呼んでも安全です。
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}

func (r *userMongo) FindAll(ctx context.Context) ([]entity.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{},
		options.Find().SetProjection(withoutPassword).SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toEntity())
	}
	return users, nil
}

// FindByID は不正な ObjectID を存在しないユーザーとして扱います。
func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, options.FindOne().SetProjection(withoutPassword))
}

func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, options.FindOne())
}

func (r *userMongo) findOne(ctx context.Context, filter bson.D, opts *options.FindOneOptionsBuilder) (*entity.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

// Create はドキュメントを書き込む前にパスワードをハッシュ化します。
func (r *userMongo) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	in := *u
	in.ApplyDefaults()
	if err := entity.Validate(&in); err != nil {
		return nil, err
	}
	hashed, err := credential.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  hashed,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}
	doc.Password = ""
	return doc.toEntity(), nil
}

func (r *userMongo) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	filter := bson.D{{Key: "_id", Value: oid}}

	current, err := r.findOne(ctx, filter, options.FindOne())
	if err != nil || current == nil {
		return nil, err
	}
	patch.Apply(current)
	current.ApplyDefaults()
	if err := entity.Validate(current); err != nil {
		return nil, err
	}

	set := bson.D{{Key: "updatedAt", Value: r.now().UTC()}}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: current.Name})
	}
	if patch.Email != nil {
		set = append(set, bson.E{Key: "email", Value: current.Email})
	}
	if patch.Role != nil {
		set = append(set, bson.E{Key: "role", Value: current.Role})
	}
	if patch.Password != nil {
		hashed, err := credential.Hash(current.Password)
		if err != nil {
			return nil, err
		}
		set = append(set, bson.E{Key: "password", Value: hashed})
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)
	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrEmailInUse
	case err != nil:
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *userMongo) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	return err
}
