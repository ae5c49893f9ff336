package model

import "gorm.io/datatypes"

// DocumentRecord is one schemaless document of a collection. Rows are
// returned in insertion order, which is the order list screens use.
type DocumentRecord struct {
	BaseModel
	Collection string         `gorm:"size:191;not null;uniqueIndex:idx_collection_doc"`
	DocID      string         `gorm:"column:doc_id;size:191;not null;uniqueIndex:idx_collection_doc"`
	Data       datatypes.JSON `gorm:"type:json"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// Credential is the identity provider's login record. Federated
// identities carry a provider subject instead of a password hash.
type Credential struct {
	UUIDBase
	Email        string `gorm:"size:191;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:100"`
	DisplayName  string `gorm:"size:100"`
	PhotoURL     string `gorm:"size:255"`
	Provider     string `gorm:"size:20;not null;default:'password'"`
	Subject      string `gorm:"size:191;index"`
}

func (Credential) TableName() string {
	return "credentials"
}
