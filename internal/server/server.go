package server

// Server aggregates the entity-specific HTTP servers behind one route
// registrar.
type Server struct {
	ScoreServer
	RequestServer
	AnchorServer
}

func NewServer(
	scoreServer ScoreServer,
	requestServer RequestServer,
	anchorServer AnchorServer,
) Server {
	return Server{
		ScoreServer:   scoreServer,
		RequestServer: requestServer,
		AnchorServer:  anchorServer,
	}
}
