package types

type OutgoingEmail struct {
	MessageType     string           `bson:"messageType" json:"messageType"`
	To              []string         `bson:"to" json:"to"`
	Subject         string           `bson:"subject" json:"subject"`
	HeaderOverrides *HeaderOverrides `bson:"headerOverrides" json:"headerOverrides"`
	Content         string           `bson:"content" json:"content"`
	HighPrio        bool             `bson:"highPrio" json:"highPrio"`
}
