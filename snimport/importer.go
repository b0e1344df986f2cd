package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"gopkg.in/gorp.v2"
)

type ImportMode string

const (
	ModeEvent ImportMode = "event"
	ModeRsvp  ImportMode = "rsvp"

	importPoolSize = 5
)

// ImportOrchestrator drives one import run over all connected (user, network)
// credentials. Tasks run on a bounded worker pool and are fault isolated: one
// user's failure is counted and logged, never propagated to the others. Only
// a failure before dispatch (credential store unreachable, unknown network
// filter) fails the run itself.
type ImportOrchestrator struct {
	db         *gorp.DbMap
	registry   map[string]vendorBuilder
	refresher  *TokenRefresher
	reconciler *Reconciler
	poolSize   int
	infoLog    *log.Logger
	errorLog   *log.Logger
}

type ImportRunResult struct {
	Tasks    int `json:"tasks"`
	Events   int `json:"events"`
	Rsvps    int `json:"rsvps"`
	Failures int `json:"failures"`
}

type taskCounts struct {
	events int
	rsvps  int
	drops  int
}

func newImportOrchestrator() *ImportOrchestrator {
	registry := newVendorRegistry()

	return &ImportOrchestrator{
		db:         dbmap,
		registry:   registry,
		refresher:  newTokenRefresher(dbmap, registry),
		reconciler: newReconciler(dbmap),
		poolSize:   importPoolSize,
		infoLog:    InfoLog,
		errorLog:   ErrorLog,
	}
}

// Run executes one import pass in the given mode. networkName restricts the
// run to a single social network; blank means all of them.
func (o *ImportOrchestrator) Run(mode ImportMode, networkName string) (*ImportRunResult, error) {
	if mode != ModeEvent && mode != ModeRsvp {
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	var networkFilter int64
	if networkName != "" {
		sn, err := getSocialNetworkByName(networkName)
		if err != nil {
			return nil, err
		}
		networkFilter = sn.ID
	}

	creds, err := getAllConnectedCredentials(networkFilter)
	if err != nil {
		return nil, err
	}

	o.infoLog.Printf("import run starting: mode=%s network=%q credentials=%d\n", mode, networkName, len(creds))

	result := &ImportRunResult{Tasks: len(creds)}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, o.poolSize)

	for i := range creds {
		cred := creds[i]

		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					o.errorLog.Printf("import task panicked: user=%d network_id=%d panic=%v\n",
						cred.UserID, cred.SocialNetworkID, r)
					mu.Lock()
					result.Failures++
					mu.Unlock()
				}
			}()

			counts, err := o.runTask(mode, cred)

			mu.Lock()
			result.Events += counts.events
			result.Rsvps += counts.rsvps
			if err != nil {
				result.Failures++
			}
			mu.Unlock()

			if err != nil {
				o.errorLog.Printf("import task failed: user=%d network_id=%d mode=%s err=%v\n",
					cred.UserID, cred.SocialNetworkID, mode, err)
			}
		}()
	}

	wg.Wait()

	o.infoLog.Printf("import run finished: mode=%s tasks=%d events=%d rsvps=%d failures=%d\n",
		mode, result.Tasks, result.Events, result.Rsvps, result.Failures)

	return result, nil
}

func (o *ImportOrchestrator) runTask(mode ImportMode, cred UserSocialNetworkCredential) (taskCounts, error) {
	counts := taskCounts{}

	sn, err := getSocialNetworkByID(cred.SocialNetworkID)
	if err != nil {
		return counts, err
	}

	builder, ok := o.registry[sn.Name]
	if !ok {
		return counts, errors.New("no registered vendor for " + sn.Name)
	}

	session := newVendorSession(sn, cred)
	client, normalizer := builder.build(session)

	switch mode {
	case ModeEvent:
		err = o.importEvents(session, client, normalizer, &counts)
	case ModeRsvp:
		err = o.importRsvps(session, client, normalizer, &counts)
	}

	return counts, err
}

func (o *ImportOrchestrator) importEvents(s *vendorSession, client VendorClient, normalizer EventNormalizer, counts *taskCounts) error {
	var raws []json.RawMessage
	err := o.withAuthRetry(s, client, func() (err error) {
		raws, err = client.GetEvents()
		return err
	})
	if err != nil {
		return err
	}

	for _, raw := range raws {
		ev, err := normalizer.NormalizeEvent(raw)
		if err != nil {
			o.errorLog.Printf("normalize event failed: network=%s user=%d err=%v\n", s.network.Name, s.cred.UserID, err)
			continue
		}
		if ev == nil {
			// normalizer already logged the drop
			counts.drops++
			continue
		}

		_, err = o.reconciler.UpsertEvent(ev)
		if err != nil {
			o.errorLog.Printf("upsert event failed: network=%s user=%d vendor_event=%s err=%v\n",
				s.network.Name, s.cred.UserID, ev.SocialNetworkEventID, err)
			continue
		}

		counts.events++
	}

	return nil
}

func (o *ImportOrchestrator) importRsvps(s *vendorSession, client VendorClient, normalizer EventNormalizer, counts *taskCounts) error {
	if !client.SupportsRsvpPolling() {
		o.infoLog.Printf("rsvp polling not supported: network=%s user=%d, rsvps arrive via webhook\n",
			s.network.Name, s.cred.UserID)
		return nil
	}

	userEvents, err := getEventsByUserAndSocialNetwork(s.cred.UserID, s.network.ID)
	if err != nil {
		return err
	}

	for _, ev := range userEvents {
		ev := ev

		var rawRsvps []json.RawMessage
		err := o.withAuthRetry(s, client, func() (err error) {
			rawRsvps, err = client.GetRsvps(ev)
			return err
		})
		if err != nil {
			if isNotFoundError(err) {
				o.infoLog.Printf("event gone at vendor, skipping: network=%s vendor_event=%s\n",
					s.network.Name, ev.SocialNetworkEventID)
				continue
			}
			return err
		}

		for _, rawRsvp := range rawRsvps {
			rawRsvp := rawRsvp

			var rawAttendee json.RawMessage
			err := o.withAuthRetry(s, client, func() (err error) {
				rawAttendee, err = client.GetAttendee(rawRsvp)
				return err
			})
			if err != nil {
				if isNotFoundError(err) {
					continue
				}

				var apiErr *vendorAPIError
				if !errors.As(err, &apiErr) {
					// refresh failed, the rest of this task cannot proceed
					return err
				}

				o.errorLog.Printf("fetch attendee failed: network=%s user=%d err=%v\n", s.network.Name, s.cred.UserID, err)
				continue
			}

			att, err := normalizer.NormalizeAttendee(rawRsvp, rawAttendee)
			if err != nil {
				o.errorLog.Printf("normalize attendee failed: network=%s user=%d err=%v\n", s.network.Name, s.cred.UserID, err)
				continue
			}
			if att == nil {
				counts.drops++
				continue
			}

			_, err = o.reconciler.UpsertRsvp(att)
			if err != nil {
				o.errorLog.Printf("upsert rsvp failed: network=%s user=%d vendor_rsvp=%s err=%v\n",
					s.network.Name, s.cred.UserID, att.VendorRsvpID, err)
				continue
			}

			counts.rsvps++
		}
	}

	return nil
}

// withAuthRetry runs one vendor fetch and, on a 401/403, refreshes the token
// and retries exactly once with the new token. A refresh failure terminates
// this task only. fetch captures its own result.
func (o *ImportOrchestrator) withAuthRetry(s *vendorSession, client VendorClient, fetch func() error) error {
	err := fetch()
	if err == nil || !isAuthError(err) {
		return err
	}

	newToken, refreshErr := o.refresher.Refresh(&s.cred, s.network)
	if refreshErr != nil {
		return fmt.Errorf("connection broken for user %d on %s: %w", s.cred.UserID, s.network.Name, refreshErr)
	}

	client.SetAccessToken(newToken)

	return fetch()
}
