// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the routerchat Bubble Tea screen.

The Model owns a session.Controller and turns terminal events into session
events. It does four kinds of asynchronous work, each delivered back as a
message:

  - attachment reads (imageReadMsg, fileReadMsg), tagged with the slot
    generation so stale reads are discarded
  - the single in-flight request (settledMsg)
  - reveal ticks (reveal.TickMsg), tagged with the reveal generation
  - transient notices (noticeExpiredMsg)

Credential changes from the config watcher arrive as CredentialsChangedMsg.

# Keys

	ctrl+s, alt+enter   send
	ctrl+t              pick model
	ctrl+f              attach image or file
	alt+i / alt+f       drop image / file
	ctrl+l              clear prompt and attachments
	ctrl+o              copy answer
	ctrl+y              copy last code block
	f1..f3              quick actions
	ctrl+c              quit
*/
package chat
