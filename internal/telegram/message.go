package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
)

// ToMessage converts an incoming MTProto message. Outgoing messages yield
// nil without error.
func ToMessage(e tg.Entities, msg *tg.Message) (*chat.Message, error) {
	if msg.Out {
		return nil, nil
	}

	peer, err := resolvePeer(msg.PeerID, e)
	if err != nil {
		return nil, err
	}

	out := &chat.Message{
		ID:     msg.ID,
		ChatID: peerID(msg.PeerID),
		Text:   msg.Message,
		Date:   time.Unix(int64(msg.Date), 0),
		Peer:   peer,
	}

	if from, ok := msg.GetFromID(); ok {
		if u, ok := from.(*tg.PeerUser); ok {
			out.SenderID = u.UserID
		}
	} else if u, ok := msg.PeerID.(*tg.PeerUser); ok {
		out.SenderID = u.UserID
	}

	if user, ok := e.Users[out.SenderID]; ok {
		out.SenderName = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	return out, nil
}

// resolvePeer converts a PeerClass to InputPeerClass using the provided entities.
func resolvePeer(peer tg.PeerClass, entities tg.Entities) (tg.InputPeerClass, error) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		user, ok := entities.Users[p.UserID]
		if !ok {
			return nil, fmt.Errorf("user %d not found in entities", p.UserID)
		}
		return &tg.InputPeerUser{
			UserID:     user.ID,
			AccessHash: user.AccessHash,
		}, nil
	case *tg.PeerChat:
		c, ok := entities.Chats[p.ChatID]
		if !ok {
			return nil, fmt.Errorf("chat %d not found in entities", p.ChatID)
		}
		return &tg.InputPeerChat{
			ChatID: c.ID,
		}, nil
	case *tg.PeerChannel:
		channel, ok := entities.Channels[p.ChannelID]
		if !ok {
			return nil, fmt.Errorf("channel %d not found in entities", p.ChannelID)
		}
		return &tg.InputPeerChannel{
			ChannelID:  channel.ID,
			AccessHash: channel.AccessHash,
		}, nil
	default:
		return nil, fmt.Errorf("unknown peer type: %T", peer)
	}
}

func peerID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return p.ChatID
	case *tg.PeerChannel:
		return p.ChannelID
	}
	return 0
}

func getMsgID(updates tg.UpdatesClass) int {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID
	case *tg.Updates:
		for _, update := range u.Updates {
			if msg, ok := update.(*tg.UpdateNewMessage); ok {
				if m, ok := msg.Message.(*tg.Message); ok {
					return m.ID
				}
			}
			if msg, ok := update.(*tg.UpdateNewChannelMessage); ok {
				if m, ok := msg.Message.(*tg.Message); ok {
					return m.ID
				}
			}
			if id, ok := update.(*tg.UpdateMessageID); ok {
				return id.ID
			}
		}
	}
	return 0
}
