/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	auditModel "github.com/pjdagdal/member-data-service/internal/audit/model"
	"github.com/pjdagdal/member-data-service/internal/member/model"
	"github.com/pjdagdal/member-data-service/internal/system/constants"
	errors2 "github.com/pjdagdal/member-data-service/internal/system/errors"
	"github.com/pjdagdal/member-data-service/internal/system/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// memberDocument is the stored shape of a member in the members collection.
type memberDocument struct {
	ID                           primitive.ObjectID `bson:"_id,omitempty"`
	MembershipId                 membershipIdValue  `bson:"membershipId,omitempty"`
	FullName                     string             `bson:"fullName"`
	Phone                        string             `bson:"phone,omitempty"`
	Email                        string             `bson:"email,omitempty"`
	NationalId                   string             `bson:"cin,omitempty"`
	Address                      string             `bson:"address,omitempty"`
	DateOfBirth                  *time.Time         `bson:"dateOfBirth,omitempty"`
	Bio                          string             `bson:"bio,omitempty"`
	Gender                       string             `bson:"gender,omitempty"`
	EducationLevel               string             `bson:"educationLevel,omitempty"`
	Occupation                   string             `bson:"occupation,omitempty"`
	MemberType                   string             `bson:"memberType,omitempty"`
	Role                         string             `bson:"role,omitempty"`
	PdfUrl                       string             `bson:"pdfUrl,omitempty"`
	MemberOfRegionalBodies       bool               `bson:"memberOfRegionalBodies"`
	MemberOfRegionalBodiesDetail string             `bson:"memberOfRegionalBodiesDetail,omitempty"`
	AssignedMission              bool               `bson:"assignedMission"`
	AssignedMissionDetail        string             `bson:"assignedMissionDetail,omitempty"`
	PreviousPartyExperiences     string             `bson:"previousPartyExperiences,omitempty"`
	Status                       string             `bson:"status,omitempty"`
	JoinedAt                     *time.Time         `bson:"joinedAt,omitempty"`
	CreatedAt                    time.Time          `bson:"createdAt"`
	UpdatedAt                    time.Time          `bson:"updatedAt"`
}

// membershipIdValue reads membershipId written either as a string or, by older deployments, as a number.
type membershipIdValue string

func (v *membershipIdValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {

	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*v = membershipIdValue(raw.StringValue())
	case bsontype.Int32:
		*v = membershipIdValue(strconv.FormatInt(int64(raw.Int32()), 10))
	case bsontype.Int64:
		*v = membershipIdValue(strconv.FormatInt(raw.Int64(), 10))
	case bsontype.Double:
		*v = membershipIdValue(strconv.FormatFloat(raw.Double(), 'f', -1, 64))
	case bsontype.Null, bsontype.Undefined:
		*v = ""
	default:
		return fmt.Errorf("cannot decode %s into a membership id", t)
	}
	return nil
}

// mongoFieldNames maps updatable member fields to document keys.
var mongoFieldNames = map[string]string{
	model.FieldMembershipId:                 "membershipId",
	model.FieldFullName:                     "fullName",
	model.FieldPhone:                        "phone",
	model.FieldEmail:                        "email",
	model.FieldNationalId:                   "cin",
	model.FieldAddress:                      "address",
	model.FieldDateOfBirth:                  "dateOfBirth",
	model.FieldBio:                          "bio",
	model.FieldGender:                       "gender",
	model.FieldEducationLevel:               "educationLevel",
	model.FieldOccupation:                   "occupation",
	model.FieldMemberType:                   "memberType",
	model.FieldRole:                         "role",
	model.FieldPdfUrl:                       "pdfUrl",
	model.FieldMemberOfRegionalBodies:       "memberOfRegionalBodies",
	model.FieldMemberOfRegionalBodiesDetail: "memberOfRegionalBodiesDetail",
	model.FieldAssignedMission:              "assignedMission",
	model.FieldAssignedMissionDetail:        "assignedMissionDetail",
	model.FieldPreviousPartyExperiences:     "previousPartyExperiences",
	model.FieldStatus:                       "status",
	model.FieldJoinedAt:                     "joinedAt",
}

func toDocument(m model.Member) (memberDocument, error) {
	doc := memberDocument{
		MembershipId:                 membershipIdValue(m.MembershipId),
		FullName:                     m.FullName,
		Phone:                        m.Phone,
		Email:                        m.Email,
		NationalId:                   m.NationalId,
		Address:                      m.Address,
		DateOfBirth:                  m.DateOfBirth,
		Bio:                          m.Bio,
		Gender:                       m.Gender,
		EducationLevel:               m.EducationLevel,
		Occupation:                   m.Occupation,
		MemberType:                   m.MemberType,
		Role:                         m.Role,
		PdfUrl:                       m.PdfUrl,
		MemberOfRegionalBodies:       m.MemberOfRegionalBodies,
		MemberOfRegionalBodiesDetail: m.MemberOfRegionalBodiesDetail,
		AssignedMission:              m.AssignedMission,
		AssignedMissionDetail:        m.AssignedMissionDetail,
		PreviousPartyExperiences:     m.PreviousPartyExperiences,
		Status:                       m.Status,
		JoinedAt:                     m.JoinedAt,
		CreatedAt:                    m.CreatedAt,
		UpdatedAt:                    m.UpdatedAt,
	}
	if m.Id != "" {
		id, err := primitive.ObjectIDFromHex(m.Id)
		if err != nil {
			return doc, errors2.Validation(fmt.Errorf("invalid member id %q", m.Id))
		}
		doc.ID = id
	}
	return doc, nil
}

func (doc memberDocument) toMember() model.Member {
	return model.Member{
		Id:                           doc.ID.Hex(),
		MembershipId:                 string(doc.MembershipId),
		FullName:                     doc.FullName,
		Phone:                        doc.Phone,
		Email:                        doc.Email,
		NationalId:                   doc.NationalId,
		Address:                      doc.Address,
		DateOfBirth:                  doc.DateOfBirth,
		Bio:                          doc.Bio,
		Gender:                       doc.Gender,
		EducationLevel:               doc.EducationLevel,
		Occupation:                   doc.Occupation,
		MemberType:                   doc.MemberType,
		Role:                         doc.Role,
		PdfUrl:                       doc.PdfUrl,
		MemberOfRegionalBodies:       doc.MemberOfRegionalBodies,
		MemberOfRegionalBodiesDetail: doc.MemberOfRegionalBodiesDetail,
		AssignedMission:              doc.AssignedMission,
		AssignedMissionDetail:        doc.AssignedMissionDetail,
		PreviousPartyExperiences:     doc.PreviousPartyExperiences,
		Status:                       doc.Status,
		JoinedAt:                     doc.JoinedAt,
		CreatedAt:                    doc.CreatedAt,
		UpdatedAt:                    doc.UpdatedAt,
	}
}

// EnsureMongoIndexes creates the unique indexes the member collection relies on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {

	uniqueWhenSet := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{key: bson.M{"$type": "string"}}),
		}
	}
	_, err := db.Collection(constants.MemberCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		uniqueWhenSet("membershipId"),
		uniqueWhenSet("cin"),
	})
	if err != nil {
		return serverError(errors2.DATABASE_CONNECTION, "Failed to create member indexes.", err)
	}
	return nil
}

// MongoMemberStore is the MongoDB implementation of MemberStore.
type MongoMemberStore struct {
	Collection *mongo.Collection
}

// NewMongoMemberStore creates a member store over the members collection of db.
func NewMongoMemberStore(db *mongo.Database) *MongoMemberStore {
	return &MongoMemberStore{
		Collection: db.Collection(constants.MemberCollection),
	}
}

// Insert adds a new member document.
func (s *MongoMemberStore) Insert(ctx context.Context, member *model.Member) error {

	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	if member.UpdatedAt.IsZero() {
		member.UpdatedAt = member.CreatedAt
	}
	doc, err := toDocument(*member)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := s.Collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return conflictError(fmt.Sprintf("Member '%s' conflicts with an existing member.", member.FullName), err)
		}
		return serverError(errors2.ADD_MEMBER, "Failed to insert member.", err)
	}
	member.Id = doc.ID.Hex()
	log.GetLogger().Debug("Member inserted", log.String("memberId", member.Id))
	return nil
}

// FindAll returns every member ordered by insertion.
func (s *MongoMemberStore) FindAll(ctx context.Context) ([]model.Member, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// FindWithoutMembershipId returns members lacking a membership id, ordered by insertion.
func (s *MongoMemberStore) FindWithoutMembershipId(ctx context.Context) ([]model.Member, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"membershipId": bson.M{"$exists": false}},
		bson.M{"membershipId": nil},
		bson.M{"membershipId": ""},
	}}
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// List returns one page of members ordered by insertion.
func (s *MongoMemberStore) List(ctx context.Context, limit, offset int) ([]model.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).SetLimit(int64(limit))
	return s.find(ctx, bson.M{}, opts)
}

func (s *MongoMemberStore) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]model.Member, error) {

	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, serverError(errors2.FETCH_MEMBERS, "Failed to fetch members.", err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			log.GetLogger().Debug("Error occurred while closing cursor.", log.Error(err))
		}
	}(cursor, ctx)

	var docs []memberDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, serverError(errors2.FETCH_MEMBERS, "Failed to decode members.", err)
	}
	members := make([]model.Member, 0, len(docs))
	for _, doc := range docs {
		members = append(members, doc.toMember())
	}
	return members, nil
}

// FindById fetches a member by id.
func (s *MongoMemberStore) FindById(ctx context.Context, id string) (*model.Member, error) {

	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc memberDocument
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectId}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, serverError(errors2.FETCH_MEMBERS, fmt.Sprintf("Failed to fetch member: %s", id), err)
	}
	member := doc.toMember()
	return &member, nil
}

// UpdateFields sets the given fields on a member.
func (s *MongoMemberStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {

	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}
	for field, value := range fields {
		key, ok := mongoFieldNames[field]
		if !ok {
			return unknownFieldError(field)
		}
		if isUnsetValue(field, value) {
			unset[key] = ""
			continue
		}
		set[key] = value
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return memberNotFoundError(id)
	}
	res, err := s.Collection.UpdateOne(ctx, bson.M{"_id": objectId}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return conflictError(fmt.Sprintf("Update of member '%s' conflicts with an existing member.", id), err)
		}
		return serverError(errors2.UPDATE_MEMBER, fmt.Sprintf("Failed to update member: %s", id), err)
	}
	if res.MatchedCount == 0 {
		return memberNotFoundError(id)
	}
	return nil
}

// isUnsetValue reports values that are removed rather than stored, so unique indexes ignore them.
func isUnsetValue(field string, value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case *time.Time:
		return v == nil
	case string:
		return v == "" && (field == model.FieldMembershipId || field == model.FieldNationalId)
	}
	return false
}

// DeleteMany removes the given members and reports how many were deleted.
func (s *MongoMemberStore) DeleteMany(ctx context.Context, ids []string) (int64, error) {

	objectIds := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objectId, err := primitive.ObjectIDFromHex(id); err == nil {
			objectIds = append(objectIds, objectId)
		}
	}
	if len(objectIds) == 0 {
		return 0, nil
	}
	res, err := s.Collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": objectIds}})
	if err != nil {
		return 0, serverError(errors2.DELETE_MEMBERS, "Failed to delete members.", err)
	}
	return res.DeletedCount, nil
}

// Ping checks that the primary is reachable.
func (s *MongoMemberStore) Ping(ctx context.Context) error {
	if err := s.Collection.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return serverError(errors2.DATABASE_CONNECTION, "MongoDB is not reachable.", err)
	}
	return nil
}

// MongoCounterStore is the MongoDB implementation of CounterStore.
type MongoCounterStore struct {
	Collection *mongo.Collection
}

// NewMongoCounterStore creates a counter store over the counters collection of db.
func NewMongoCounterStore(db *mongo.Database) *MongoCounterStore {
	return &MongoCounterStore{
		Collection: db.Collection(constants.CounterCollection),
	}
}

type counterDocument struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// Increment bumps the counter with a single upserting find-and-modify.
func (s *MongoCounterStore) Increment(ctx context.Context, name string) (int64, error) {

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counterDocument
	err := s.Collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&doc)
	if err != nil {
		return 0, serverError(errors2.ALLOCATE_MEMBERSHIP_ID, fmt.Sprintf("Failed to increment counter: %s", name), err)
	}
	return doc.Seq, nil
}

// Current reads the counter value.
func (s *MongoCounterStore) Current(ctx context.Context, name string) (int64, error) {

	var doc counterDocument
	err := s.Collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, serverError(errors2.FETCH_COUNTER, fmt.Sprintf("Failed to read counter: %s", name), err)
	}
	return doc.Seq, nil
}

// MongoAuditStore is the MongoDB implementation of AuditStore.
type MongoAuditStore struct {
	Collection *mongo.Collection
}

// NewMongoAuditStore creates an audit store over the audit log collection of db.
func NewMongoAuditStore(db *mongo.Database) *MongoAuditStore {
	return &MongoAuditStore{
		Collection: db.Collection(constants.AuditLogCollection),
	}
}

// InsertAuditLog writes one audit entry.
func (s *MongoAuditStore) InsertAuditLog(ctx context.Context, entry auditModel.AuditLog) error {

	doc := bson.M{
		"_id":          entry.Id,
		"actor":        entry.Actor,
		"action":       entry.Action,
		"resourceType": entry.ResourceType,
		"resourceId":   entry.ResourceId,
		"before":       documentState(entry.Before),
		"after":        documentState(entry.After),
		"ip":           entry.Ip,
		"createdAt":    entry.CreatedAt,
	}
	if entry.Id == "" {
		delete(doc, "_id")
	}
	if _, err := s.Collection.InsertOne(ctx, doc); err != nil {
		return serverError(errors2.ADD_AUDIT_LOG, "Failed to insert audit log.", err)
	}
	return nil
}

// documentState stores a before/after state under its JSON field names.
func documentState(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var state interface{}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil
	}
	return state
}

// auditDocument is the stored shape of an audit entry. Ids and actors are strings for entries written
// here and object ids for entries written by older deployments.
type auditDocument struct {
	ID           bson.RawValue `bson:"_id"`
	Actor        bson.RawValue `bson:"actor"`
	Action       string        `bson:"action"`
	ResourceType string        `bson:"resourceType"`
	ResourceId   bson.RawValue `bson:"resourceId"`
	Before       bson.RawValue `bson:"before"`
	After        bson.RawValue `bson:"after"`
	Ip           string        `bson:"ip"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

func (doc auditDocument) toAuditLog() auditModel.AuditLog {
	return auditModel.AuditLog{
		Id:           rawString(doc.ID),
		Actor:        rawString(doc.Actor),
		Action:       doc.Action,
		ResourceType: doc.ResourceType,
		ResourceId:   rawString(doc.ResourceId),
		Before:       rawState(doc.Before),
		After:        rawState(doc.After),
		Ip:           doc.Ip,
		CreatedAt:    doc.CreatedAt.UTC(),
	}
}

// ListAuditLogs returns matching entries newest first.
func (s *MongoAuditStore) ListAuditLogs(ctx context.Context, filter auditModel.AuditLogFilter,
	limit, skip int) ([]auditModel.AuditLog, error) {

	query := bson.M{}
	if filter.Actor != "" {
		actors := bson.A{filter.Actor}
		if objectId, err := primitive.ObjectIDFromHex(filter.Actor); err == nil {
			actors = append(actors, objectId)
		}
		query["actor"] = bson.M{"$in": actors}
	}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.ResourceType != "" {
		query["resourceType"] = filter.ResourceType
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, serverError(errors2.FETCH_AUDIT_LOGS, "Failed to list audit logs.", err)
	}
	defer cursor.Close(ctx)

	var docs []auditDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, serverError(errors2.FETCH_AUDIT_LOGS, "Failed to decode audit logs.", err)
	}
	logs := make([]auditModel.AuditLog, 0, len(docs))
	for _, doc := range docs {
		logs = append(logs, doc.toAuditLog())
	}
	return logs, nil
}

func rawString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	}
	return ""
}

// rawState renders a stored before/after state as relaxed extended JSON.
func rawState(v bson.RawValue) interface{} {
	switch v.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return nil
	case bsontype.EmbeddedDocument:
		data, err := bson.MarshalExtJSON(bson.Raw(v.Value), false, false)
		if err != nil {
			return nil
		}
		return json.RawMessage(data)
	}
	var out interface{}
	if err := v.Unmarshal(&out); err != nil {
		return nil
	}
	return out
}
