package telegram

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/aether-dl-bot/internal/chat"
	"github.com/pavelc4/aether-dl-bot/internal/extractor"
)

var errNoPeer = errors.New("message carries no input peer")

type Messenger struct {
	api      *tg.Client
	sender   *message.Sender
	uploader *uploader.Uploader
}

func NewMessenger(api *tg.Client) *Messenger {
	return &Messenger{
		api:      api,
		sender:   message.NewSender(api),
		uploader: uploader.NewUploader(api),
	}
}

func inputPeer(msg *chat.Message) (tg.InputPeerClass, error) {
	peer, ok := msg.Peer.(tg.InputPeerClass)
	if !ok || peer == nil {
		return nil, errNoPeer
	}
	return peer, nil
}

func (m *Messenger) Reply(ctx context.Context, to *chat.Message, text chat.Text) (*chat.Message, error) {
	peer, err := inputPeer(to)
	if err != nil {
		return nil, err
	}

	updates, err := m.sender.To(peer).Reply(to.ID).StyledText(ctx, styled(text)...)
	if err != nil {
		return nil, fmt.Errorf("send message failed: %w", err)
	}

	return &chat.Message{
		ID:     getMsgID(updates),
		ChatID: to.ChatID,
		Text:   text.String(),
		Peer:   peer,
	}, nil
}

func (m *Messenger) Edit(ctx context.Context, msg *chat.Message, text string) error {
	peer, err := inputPeer(msg)
	if err != nil {
		return err
	}
	if _, err := m.sender.To(peer).Edit(msg.ID).Text(ctx, text); err != nil {
		return fmt.Errorf("edit message %d failed: %w", msg.ID, err)
	}
	return nil
}

func (m *Messenger) Delete(ctx context.Context, msg *chat.Message) error {
	peer, err := inputPeer(msg)
	if err != nil {
		return err
	}
	if msg.ID == 0 {
		return nil
	}

	if channelPeer, ok := peer.(*tg.InputPeerChannel); ok {
		_, err = m.api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: &tg.InputChannel{
				ChannelID:  channelPeer.ChannelID,
				AccessHash: channelPeer.AccessHash,
			},
			ID: []int{msg.ID},
		})
	} else {
		_, err = m.api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
			ID:     []int{msg.ID},
			Revoke: true,
		})
	}
	if err != nil {
		return fmt.Errorf("delete message %d failed: %w", msg.ID, err)
	}
	return nil
}

func (m *Messenger) SendVideo(ctx context.Context, to *chat.Message, path string) error {
	return m.sendFile(ctx, to, path, true)
}

func (m *Messenger) SendDocument(ctx context.Context, to *chat.Message, path string) error {
	return m.sendFile(ctx, to, path, false)
}

func (m *Messenger) sendFile(ctx context.Context, to *chat.Message, path string, asVideo bool) error {
	peer, err := inputPeer(to)
	if err != nil {
		return err
	}

	file, err := m.uploader.FromPath(ctx, path)
	if err != nil {
		return fmt.Errorf("upload %s failed: %w", filepath.Base(path), err)
	}

	doc := message.UploadedDocument(file).
		MIME(extractor.MIMEType(path)).
		Filename(filepath.Base(path))

	if asVideo {
		doc = doc.Attributes(&tg.DocumentAttributeVideo{
			SupportsStreaming: true,
		})
	} else {
		doc = doc.ForceFile(true)
	}

	if _, err := m.sender.To(peer).Reply(to.ID).Media(ctx, doc); err != nil {
		return fmt.Errorf("send media failed: %w", err)
	}
	return nil
}

func styled(text chat.Text) []message.StyledTextOption {
	opts := make([]message.StyledTextOption, 0, len(text))
	for _, s := range text {
		if s.Bold {
			opts = append(opts, styling.Bold(s.Text))
		} else {
			opts = append(opts, styling.Plain(s.Text))
		}
	}
	return opts
}
