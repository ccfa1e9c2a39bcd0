package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractgenx "github.com/wavelaunch/creator-backend/creator/contractgen"
	outreachx "github.com/wavelaunch/creator-backend/creator/outreach"
	recorderx "github.com/wavelaunch/creator-backend/creator/recorder"
	storex "github.com/wavelaunch/creator-backend/creator/store"
	apix "github.com/wavelaunch/creator-backend/internal/api"
	serverx "github.com/wavelaunch/creator-backend/internal/server"
	"github.com/wavelaunch/creator-backend/pkg/blandai"
	configx "github.com/wavelaunch/creator-backend/pkg/config"
	"github.com/wavelaunch/creator-backend/pkg/groq"
	_ "github.com/wavelaunch/creator-backend/pkg/logger/autoload"
	"github.com/wavelaunch/creator-backend/pkg/resend"
)

type AppConfig struct {
	Addr string `envconfig:"ADDR" default:":8080"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("APP")

	dbCfg := configx.MustNew[storex.Config]("DATABASE")
	db := storex.Open(*dbCfg)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := storex.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	creators := storex.NewCreatorStore(db)
	activities := storex.NewActivityStore(db)

	rec, err := recorderx.New(activities)
	if err != nil {
		log.Fatal().Err(err).Msg("recorder init failed")
	}

	callClient := blandai.MustNew(*configx.MustNew[blandai.Config]("BLAND"))
	emailClient := resend.MustNew(*configx.MustNew[resend.Config]("RESEND"))
	generator := groq.MustNew(*configx.MustNew[groq.Config]("GROQ"))

	svc, err := outreachx.New(creators, rec, callClient, emailClient)
	if err != nil {
		log.Fatal().Err(err).Msg("outreach service init failed")
	}

	synth, err := contractgenx.New(activities, generator)
	if err != nil {
		log.Fatal().Err(err).Msg("contract synthesizer init failed")
	}

	router := serverx.NewRouter(&apix.Handler{
		Outreach:  svc,
		Contracts: synth,
	})

	log.Info().Str("addr", appCfg.Addr).Msg("creator backend listening")
	if err := router.Run(appCfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
