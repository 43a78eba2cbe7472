package models

// Write results keep the shape the storefront client reads after every
// insert, update and delete call.

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func Inserted(id string) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: id}
}

func Modified(n int64) UpdateResult {
	return UpdateResult{Acknowledged: true, MatchedCount: n, ModifiedCount: n}
}
