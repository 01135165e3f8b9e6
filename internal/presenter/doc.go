// Package presenter turns a song into a slide [Deck] and shows it through a [Port].
//
// [BuildDeck] places an intro slide first, then one slide per verse in verse number order. Once
// the chorus has been shown, a copy of it follows every later verse.
//
// [Terminal] is the bubbletea implementation of [Port]. While it runs it owns all key input:
//
//	→ l n space  next slide         ← h p     previous slide
//	home g       first slide        end G     last slide
//	f            toggle fullscreen  o         slide overview
//	?            toggle help        q esc     close
package presenter
