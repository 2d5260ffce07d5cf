package audio

import (
	"fmt"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

type pulseServer struct {
	client *pulse.Client
}

// Connect opens the connection used for the life of the process.
func Connect(clientName string) (Server, error) {
	if clientName == "" {
		clientName = ClientName
	}
	c, err := pulse.NewClient(pulse.ClientApplicationName(clientName))
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseServer{client: c}, nil
}

func (p *pulseServer) Sources() ([]SourceInfo, error) {
	var reply proto.GetSourceInfoListReply
	if err := p.client.RawRequest(&proto.GetSourceInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("pulse list sources: %w", err)
	}
	sources := make([]SourceInfo, 0, len(reply))
	for _, s := range reply {
		sources = append(sources, SourceInfo{
			Index:       s.SourceIndex,
			Name:        s.SourceName,
			Description: s.Device,
			State:       SourceState(s.State),
			Muted:       s.Mute,
		})
	}
	return sources, nil
}

func (p *pulseServer) DefaultSourceName() (string, error) {
	var reply proto.GetServerInfoReply
	if err := p.client.RawRequest(&proto.GetServerInfo{}, &reply); err != nil {
		return "", fmt.Errorf("pulse server info: %w", err)
	}
	return reply.DefaultSourceName, nil
}

func (p *pulseServer) Close() {
	p.client.Close()
}
